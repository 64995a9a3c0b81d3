// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/creachadair/jbind"
	"github.com/creachadair/jbind/codec"
	"github.com/creachadair/jbind/event"
	"github.com/creachadair/jbind/syntax"
	"github.com/creachadair/jbind/value"
	"github.com/creachadair/jbind/value/cursor"
	"github.com/creachadair/jbind/value/query"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// layoutFlags are the output flags shared by fmt and get.
type layoutFlags struct {
	compact    bool
	indent     int
	indentChar string
	decimals   int
}

func (lf *layoutFlags) bind(fs *pflag.FlagSet) {
	fs.BoolVar(&lf.compact, "compact", false, "write compact output")
	fs.IntVar(&lf.indent, "indent", 2, "indentation width per level")
	fs.StringVar(&lf.indentChar, "indent-char", " ", "indentation character")
	fs.IntVar(&lf.decimals, "decimals", 0, "maximum decimal places of floats (0 means no limit)")
}

func (lf *layoutFlags) options(nan bool) (*jbind.EncodeOptions, error) {
	if len(lf.indentChar) != 1 {
		return nil, fmt.Errorf("indent character must be a single byte, got %q", lf.indentChar)
	}
	opts := &jbind.EncodeOptions{
		Indent:           lf.indent,
		IndentChar:       lf.indentChar[0],
		MaxDecimalPlaces: lf.decimals,
		AllowNaNInf:      nan,
	}
	if lf.compact {
		opts.Indent = 0
	}
	return opts, nil
}

// parseFlags are the input flags for JSON text.
type parseFlags struct {
	nan      bool
	comments bool
}

func (pf *parseFlags) bind(fs *pflag.FlagSet) {
	fs.BoolVar(&pf.nan, "nan", false, "accept and write NaN and infinities")
	fs.BoolVar(&pf.comments, "comments", false, "accept comments and trailing commas")
}

func (pf *parseFlags) options() *value.ParseOptions {
	return &value.ParseOptions{
		AllowNaNInf:         pf.nan,
		AllowComments:       pf.comments,
		AllowTrailingCommas: pf.comments,
	}
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

// readInput reads the named file, or standard input if name is "" or "-".
func readInput(log *zap.Logger, name string) ([]byte, error) {
	var data []byte
	var err error
	if name == "" || name == "-" {
		name = "<stdin>"
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	log.Debug("read input", zap.String("source", name), zap.Int("bytes", len(data)))
	return data, nil
}

func parseInput(log *zap.Logger, name string, opts *value.ParseOptions) (value.Value, error) {
	data, err := readInput(log, name)
	if err != nil {
		return nil, err
	}
	doc, err := value.Parse(data, opts)
	if err != nil {
		var serr *syntax.SyntaxError
		if errors.As(err, &serr) {
			log.Debug("syntax error", zap.Int("offset", serr.Offset), zap.Stringer("location", serr.Location))
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return doc.Root(), nil
}

func writeOutput(log *zap.Logger, data []byte) error {
	if n := len(data); n == 0 || data[n-1] != '\n' {
		data = append(data, '\n')
	}
	log.Debug("write output", zap.Int("bytes", len(data)))
	_, err := os.Stdout.Write(data)
	return err
}

// optionalArg checks that fs has nreq required arguments and at most one
// more, and returns the optional one if present.
func optionalArg(fs *pflag.FlagSet, nreq int) (string, error) {
	switch n := fs.NArg(); {
	case n < nreq:
		return "", fmt.Errorf("missing arguments (got %d, want at least %d)", n, nreq)
	case n > nreq+1:
		return "", fmt.Errorf("extra arguments after %q", fs.Arg(nreq))
	case n == nreq+1:
		return fs.Arg(nreq), nil
	}
	return "", nil
}

func runFmt(log *zap.Logger, args []string) error {
	var lf layoutFlags
	var pf parseFlags
	fs := newFlagSet("fmt")
	lf.bind(fs)
	pf.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	name, err := optionalArg(fs, 0)
	if err != nil {
		return err
	}
	root, err := parseInput(log, name, pf.options())
	if err != nil {
		return err
	}
	opts, err := lf.options(pf.nan)
	if err != nil {
		return err
	}
	out, err := jbind.Marshal(root, opts)
	if err != nil {
		return err
	}
	return writeOutput(log, out)
}

func runGet(log *zap.Logger, args []string) error {
	var lf layoutFlags
	var pf parseFlags
	var raw, length bool
	var recur string
	fs := newFlagSet("get")
	lf.bind(fs)
	pf.bind(fs)
	fs.BoolVarP(&raw, "raw", "r", false, "print strings without quotation marks")
	fs.StringVar(&recur, "recur", "", "collect the members with this key at or below the path")
	fs.BoolVar(&length, "len", false, "print the length of the selected value")
	if err := fs.Parse(args); err != nil {
		return err
	}
	name, err := optionalArg(fs, 1)
	if err != nil {
		return err
	}
	root, err := parseInput(log, name, pf.options())
	if err != nil {
		return err
	}
	v, err := cursor.Lookup(root, fs.Arg(0))
	if err != nil {
		return err
	}
	var q query.Seq
	if recur != "" {
		q = append(q, query.Recur(recur))
	}
	if length {
		q = append(q, query.Len())
	}
	if v, err = query.Eval(v, q); err != nil {
		return err
	}
	log.Debug("found value", zap.String("path", fs.Arg(0)), zap.Stringer("kind", value.KindOf(v)))
	if s, ok := v.(value.String); ok && raw {
		return writeOutput(log, []byte(s))
	}
	opts, err := lf.options(pf.nan)
	if err != nil {
		return err
	}
	out, err := jbind.Marshal(v, opts)
	if err != nil {
		return err
	}
	return writeOutput(log, out)
}

func runConvert(log *zap.Logger, args []string) error {
	var pf parseFlags
	var from, to string
	var indent int
	fs := newFlagSet("convert")
	fs.StringVar(&from, "from", "json", "input format")
	fs.StringVar(&to, "to", "yaml", "output format")
	fs.IntVar(&indent, "indent", 0, "indentation width of JSON output (0 is compact)")
	pf.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	name, err := optionalArg(fs, 0)
	if err != nil {
		return err
	}
	dec, err := lookupCodec(from, pf, 0)
	if err != nil {
		return err
	}
	enc, err := lookupCodec(to, pf, indent)
	if err != nil {
		return err
	}
	log.Debug("selected codecs", zap.String("from", from), zap.String("to", to))

	data, err := readInput(log, name)
	if err != nil {
		return err
	}
	v, err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", from, err)
	}
	out, err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", to, err)
	}
	if _, isJSON := enc.(codec.JSON); isJSON {
		return writeOutput(log, out)
	}
	log.Debug("write output", zap.Int("bytes", len(out)))
	_, err = os.Stdout.Write(out)
	return err
}

// lookupCodec returns the named codec, with the JSON codec configured from
// the parse flags and indent.
func lookupCodec(name string, pf parseFlags, indent int) (codec.Codec, error) {
	c, err := codec.Lookup(name)
	if err != nil {
		return nil, err
	}
	if _, ok := c.(codec.JSON); ok {
		return codec.JSON{Indent: indent, Options: *pf.options()}, nil
	}
	return c, nil
}

func runCheck(log *zap.Logger, args []string) error {
	fs := newFlagSet("check")
	if err := fs.Parse(args); err != nil {
		return err
	} else if fs.NArg() == 0 {
		return errors.New("no files to check")
	}
	var nbad int
	for _, path := range fs.Args() {
		f, err := event.Load(path)
		if err != nil {
			log.Error("invalid event file", zap.String("file", path), zap.Error(err))
			nbad++
			continue
		}
		var nimg int
		for _, ev := range f.Events {
			nimg += len(ev.Images)
		}
		log.Info("ok", zap.String("file", path), zap.Int("events", len(f.Events)), zap.Int("images", nimg))
	}
	if nbad != 0 {
		return fmt.Errorf("%d of %d files failed", nbad, fs.NArg())
	}
	return nil
}
