package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/yardbook/pkg/scene"
	"github.com/matzehuels/yardbook/pkg/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, doc *scene.Document, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatJSON:
			data, err = scene.Marshal(doc)
		case FormatSVG:
			data = sink.RenderSVG(doc, svgOptions(opts)...)
		case FormatPDF:
			data, err = sink.RenderPDF(doc, pdfOptions(opts)...)
		case FormatDOT:
			data = []byte(sink.ToDOT(doc, sink.DOTOptions{Detailed: true}))
		case FormatTree:
			data, err = sink.RenderTreeSVG(ctx, sink.ToDOT(doc, sink.DOTOptions{}))
		default:
			return nil, ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func frames(opts Options) []sink.Frame {
	if !opts.Frames {
		return nil
	}
	return []sink.Frame{
		{Name: "placement", Rect: opts.Placement.Placement.Rect()},
		{Name: "detail", Rect: opts.Placement.Detail.Rect()},
	}
}

func svgOptions(opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if f := frames(opts); len(f) > 0 {
		out = append(out, sink.WithFrames(f...))
	}
	if opts.Background != "" {
		out = append(out, sink.WithBackground(opts.Background))
	}
	return out
}

func pdfOptions(opts Options) []sink.PDFOption {
	out := []sink.PDFOption{sink.WithTitle("Yardage book")}
	if f := frames(opts); len(f) > 0 {
		out = append(out, sink.WithPDFFrames(f...))
	}
	return out
}
