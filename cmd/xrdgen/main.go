package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"XRay/internal/calc/analysis"
	"XRay/internal/calc/diffraction"
	"XRay/internal/calc/report"
	"XRay/internal/logger"
	"XRay/internal/repo"

	"go.uber.org/zap"
)

// optFloat is a float flag that remembers whether it was set.
type optFloat struct{ v *float64 }

func (o *optFloat) String() string {
	if o.v == nil {
		return ""
	}
	return fmt.Sprint(*o.v)
}

func (o *optFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	o.v = &v
	return nil
}

type options struct {
	req      analysis.Request
	out      string
	logLevel string
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	var wavelength, resolution, halfWidth, austenite, carbon optFloat
	fs.Var(&wavelength, "wavelength", "X-ray wavelength, Å (default 1.54)")
	fs.Var(&resolution, "resolution", "angular step, degrees (default 0.1)")
	fs.Var(&halfWidth, "half-width", "Gaussian half width, degrees (default 0.5)")
	fs.Var(&austenite, "austenite", "austenite content, percent (default 50)")
	fs.Var(&carbon, "carbon", "carbon content, wt% (default 0.2)")
	fs.StringVar(&o.req.Anode, "anode", "", "tube anode symbol used when -wavelength is not set (Cu, Co, Fe, Cr, Mo, Ag)")
	fs.StringVar(&o.req.Output, "output", "image", "output mode: image, csv, json, xlsx, pdf")
	fs.StringVar(&o.req.Report.Project, "project", "", "project name for pdf output")
	fs.StringVar(&o.req.Report.Author, "author", "", "author for pdf output")
	fs.StringVar(&o.out, "o", "", "output file (default stdout, or the suggested attachment name)")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	o.req.Wavelength = wavelength.v
	o.req.Resolution = resolution.v
	o.req.HalfWidth = halfWidth.v
	o.req.AusteniteContent = austenite.v
	o.req.CarbonContent = carbon.v
	return o, nil
}

// generate runs the pipeline and writes the selected export to w.
func generate(ctx context.Context, o options, w io.Writer) error {
	exp, err := report.ForMode(o.req.Output, o.req.Report)
	if err != nil {
		return err
	}
	in, err := analysis.Resolve(ctx, repo.NewMemoryRepository(repo.DefaultAnodes), o.req)
	if err != nil {
		return err
	}
	res, err := diffraction.Calculate(in)
	if err != nil {
		return err
	}
	return exp.Export(w, &res)
}

func run(args []string, stdout io.Writer) (err error) {
	fs := flag.NewFlagSet("xrdgen", flag.ContinueOnError)
	o, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	log, err := logger.New(o.logLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	out := o.out
	if out == "" {
		if exp, err := report.ForMode(o.req.Output, o.req.Report); err == nil && exp.Filename() != "" {
			out = exp.Filename()
		}
	}
	if out == "" || out == "-" {
		return generate(context.Background(), o, stdout)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(out)
		}
	}()
	bw := bufio.NewWriter(f)
	if err := generate(context.Background(), o, bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	log.Info("pattern written", zap.String("file", out), zap.String("output", o.req.Output))
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		status, body := analysis.Classify(err)
		if status == 500 {
			body.Message = err.Error()
		}
		fmt.Fprintf(os.Stderr, "xrdgen: %s: %s\n", body.Error, body.Message)
		os.Exit(1)
	}
}
