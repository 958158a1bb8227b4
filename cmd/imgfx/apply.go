package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gogpu/imgfx"
)

type applyOptions struct {
	chainFlags
	out      string
	maskPath string
	gray     bool
	progress bool
}

func newApplyCmd(a *app) *cobra.Command {
	var o applyOptions
	cmd := &cobra.Command{
		Use:   "apply INPUT",
		Short: "Apply a filter chain to an image",
		Long: `Apply a filter chain to an image and write the result.

The chain is taken from --chain or --favorite, followed by every --filter
in order. With --mask the chain only shows inside the mask region.

Examples:
  imgfx apply in.png --out out.png --filter exposure=0.5
  imgfx apply in.jpg --out out.jpg --filter gaussian_blur=4 --mask face.json
  imgfx apply in.png --out out.png --favorite 0b7e...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runApply(cmd.Context(), cmd.ErrOrStderr(), args[0], o)
		},
	}
	f := cmd.Flags()
	f.StringArrayVarP(&o.filters, "filter", "f", nil, "filter as kind=v1,v2 (repeatable, applied in order)")
	f.StringVar(&o.file, "chain", "", "JSON chain file")
	f.StringVar(&o.favorite, "favorite", "", "saved favorite id")
	f.StringVarP(&o.out, "out", "o", "", "output image (.png, .jpg, .bmp, .tiff)")
	f.StringVar(&o.maskPath, "mask", "", "JSON mask file")
	f.BoolVar(&o.gray, "gray", false, "process as single-channel grayscale")
	f.BoolVar(&o.progress, "progress", false, "report each completed stage")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) runApply(ctx context.Context, stderr io.Writer, input string, o applyOptions) error {
	chain, err := a.chain(ctx, o.chainFlags)
	if err != nil {
		return err
	}

	img, format, err := decodeImage(input)
	if err != nil {
		return err
	}
	pixfmt := imgfx.FormatRGBA8
	if o.gray {
		pixfmt = imgfx.FormatGray8
	}
	src, err := imgfx.FromImage(img, pixfmt)
	if err != nil {
		return err
	}
	a.logger.Info("image loaded", "path", input, "format", format,
		"width", src.Width(), "height", src.Height(), "stages", chain.Len())

	var mf *maskFile
	if o.maskPath != "" {
		if mf, err = loadMask(o.maskPath); err != nil {
			return err
		}
	}

	exec, err := a.executor()
	if err != nil {
		return err
	}
	defer exec.Close()

	var opts []imgfx.ApplyOption
	if o.progress {
		opts = append(opts, imgfx.WithProgress(func(p imgfx.Progress) {
			cached := ""
			if p.Cached {
				cached = " (cached)"
			}
			fmt.Fprintf(stderr, "stage %d of %d: %s %s%s\n",
				p.Stage, p.Total, p.Kind.DisplayName(), p.Elapsed.Round(time.Microsecond), cached)
		}))
	}

	out, err := a.run(ctx, exec, chain, src, mf, opts)
	var allocErr *imgfx.AllocationError
	if errors.As(err, &allocErr) {
		scale := allocErr.SuggestedScale()
		a.logger.Warn("chain exceeds memory ceiling, retrying at reduced resolution",
			"needed", humanize.IBytes(uint64(allocErr.Estimated)),
			"ceiling", humanize.IBytes(uint64(allocErr.Ceiling)),
			"scale", scale)
		if src, err = src.Downscale(scale); err != nil {
			return err
		}
		out, err = a.run(ctx, exec, chain, src, mf, opts)
	}
	if err != nil {
		return err
	}

	if err := encodeImage(o.out, out.ToImage()); err != nil {
		return err
	}
	size := int64(0)
	if st, err := os.Stat(o.out); err == nil {
		size = st.Size()
	}
	fmt.Fprintf(stderr, "wrote %s (%dx%d, %s)\n", o.out, out.Width(), out.Height(),
		humanize.Bytes(uint64(max(size, 0))))
	return nil
}

// run executes chain on the executor's workers, compositing through the
// mask when one is given. The executor's memory pre-flight rejects chains
// over the configured ceiling with *imgfx.AllocationError.
func (a *app) run(ctx context.Context, exec *imgfx.Executor, chain imgfx.FilterChain,
	src *imgfx.Buffer, mf *maskFile, opts []imgfx.ApplyOption) (*imgfx.Buffer, error) {
	if mf == nil {
		return exec.Submit(ctx, chain, src, opts...).Wait()
	}
	mask, err := mf.build(src.Width(), src.Height())
	if err != nil {
		return nil, err
	}
	return exec.SubmitMasked(ctx, chain, src, mask, opts...).Wait()
}
