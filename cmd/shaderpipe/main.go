// Command shaderpipe runs a YAML pipeline layout on PNG images with the
// software device.
//
//	shaderpipe -layout negative.yaml -in photo.png -in mask.png -out result
//
// Output port NAME is written to result-NAME.png.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/pkg/errors"

	"github.com/askiada/go-shaderpipe/internal/log"
	"github.com/askiada/go-shaderpipe/pkg/pipeline"
	"github.com/askiada/go-shaderpipe/pkg/pipeline/drawer"
	"github.com/askiada/go-shaderpipe/pkg/pipeline/loader"
	"github.com/askiada/go-shaderpipe/pkg/pipeline/measure"
	"github.com/askiada/go-shaderpipe/pkg/pipeline/model"
	"github.com/askiada/go-shaderpipe/pkg/softgl"
)

type inputFiles []string

func (f *inputFiles) String() string { return strings.Join(*f, ",") }

func (f *inputFiles) Set(v string) error {
	*f = append(*f, v)
	return nil
}

type config struct {
	layout  string
	inputs  inputFiles
	output  string
	dot     string
	frames  int
	monitor bool
}

func main() {
	var cfg config

	flag.StringVar(&cfg.layout, "layout", "", "YAML layout file")
	flag.Var(&cfg.inputs, "in", "PNG file bound to the next input port, repeatable")
	flag.StringVar(&cfg.output, "out", "out", "prefix of the output PNG files")
	flag.StringVar(&cfg.dot, "dot", "", "write the execution plan as a DOT graph")
	flag.IntVar(&cfg.frames, "frames", 1, "number of times the pipeline is applied")
	flag.BoolVar(&cfg.monitor, "monitor", false, "time every filter")
	flag.Parse()

	err := run(cfg)
	if err != nil {
		log.GetLogger().WithError(err).Error("shaderpipe failed")
		os.Exit(1)
	}
}

func run(cfg config) error {
	logger := log.GetLogger()

	l, err := loader.Load(cfg.layout)
	if err != nil {
		return err
	}

	dev := softgl.NewDevice()
	m := measure.NewDefaultMeasure()
	opts := []pipeline.Option{pipeline.WithLogger(logger)}

	if cfg.monitor || cfg.dot != "" {
		opts = append(opts, pipeline.WithPerfMonitoring(), pipeline.WithHooks(measure.PipelineMeasure(m)))
	}

	if cfg.dot != "" {
		opts = append(opts, pipeline.WithHooks(drawer.PipelineDrawer(drawer.NewDOTDrawer(cfg.dot), m)))
	}

	p, err := pipeline.New(l, dev, opts...)
	if err != nil {
		return err
	}

	inputs := make([]model.Texture, 0, len(cfg.inputs))
	for _, fileName := range cfg.inputs {
		tex, err := upload(dev, fileName)
		if err != nil {
			_ = p.Abort()
			return err
		}

		inputs = append(inputs, tex)
	}

	for frame := 0; frame < cfg.frames; frame++ {
		err := p.Run(inputs...)
		if err != nil {
			_ = p.Abort()
			return errors.Wrapf(err, "frame %d", frame)
		}
	}

	if p.IsMonitoring() {
		total, _ := p.TotalTiming()
		logger.WithField("frames", cfg.frames).Infof("last frame took %s", total)

		for name, mt := range m.AllMetrics() {
			logger.WithField("action", name).Infof("avg %s, max %s", mt.AVGDuration(), mt.MaxDuration())
		}
	}

	for i, name := range p.OutputPorts() {
		out, err := p.Out(i)
		if err != nil {
			_ = p.Abort()
			return err
		}

		err = download(out, fmt.Sprintf("%s-%s.png", cfg.output, name))
		if err != nil {
			_ = p.Abort()
			return err
		}
	}

	return p.Close()
}

func upload(dev *softgl.Device, fileName string) (*softgl.Texture, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", fileName)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to decode %s", fileName)
	}

	format := model.Format{Width: img.Bounds().Dx(), Height: img.Bounds().Dy(), Pixel: gputypes.TextureFormatRGBA8Unorm}

	return dev.Upload(img, format)
}

func download(tex model.Texture, fileName string) error {
	st, ok := tex.(*softgl.Texture)
	if !ok {
		return errors.Wrapf(softgl.ErrForeignResource, "output %s", fileName)
	}

	file, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", fileName)
	}

	err = png.Encode(file, st.Image())
	if err != nil {
		_ = file.Close()
		return errors.Wrapf(err, "unable to encode %s", fileName)
	}

	return errors.Wrapf(file.Close(), "unable to close %s", fileName)
}
