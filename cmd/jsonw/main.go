// Command jsonw re-serializes JSON or YAML input as compact or indented JSON,
// streamed through the jsonw writer. Output can be gzip-compressed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"

	jsonw "github.com/reoring/jsonw"
)

func main() {
	fs := flag.NewFlagSet("jsonw", flag.ExitOnError)
	var (
		indent   = fs.Bool("indent", false, "emit indented output")
		crlf     = fs.Bool("crlf", false, "use CRLF line terminators (with -indent)")
		fromYAML = fs.Bool("yaml", false, "treat the input as YAML")
		compress = fs.Bool("gzip", false, "gzip-compress the output")
		outPath  = fs.String("o", "", "output file (default stdout)")
	)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:\n  jsonw [-indent] [-crlf] [-yaml] [-gzip] [-o out] [file]\n\nReads JSON (or YAML with -yaml) from file or stdin and re-emits it as JSON.")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	var in io.Reader = os.Stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fatalf("open: %v", err)
		}
		defer f.Close()
		in = f
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fatalf("create: %v", err)
		}
		defer f.Close()
		out = f
	}

	opt := jsonw.Options{Indented: *indent, CRLF: *crlf}
	if err := run(in, out, opt, *fromYAML, *compress); err != nil {
		fatalf("%v", err)
	}
}

func run(in io.Reader, out io.Writer, opt jsonw.Options, fromYAML, compress bool) error {
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(out)
		out = gz
	}

	w := jsonw.NewWriter(out, opt)
	var err error
	if fromYAML {
		err = emitYAMLInput(w, in)
	} else {
		err = pumpJSON(w, json.NewDecoder(in))
	}
	if err != nil {
		return err
	}
	if err := w.Finish(context.Background()); err != nil {
		return err
	}
	if gz != nil {
		return gz.Close()
	}
	return nil
}

// frame mirrors the decoder-side bookkeeping: inside an object, strings
// alternate between keys and values.
type frame struct {
	object       bool
	expectingKey bool
}

func pumpJSON(w *jsonw.Writer, dec *json.Decoder) error {
	dec.UseNumber()
	var stack []frame
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectingKey {
			if s, ok := tok.(string); ok {
				if err := w.WriteKey(s); err != nil {
					return err
				}
				stack[n-1].expectingKey = false
				continue
			}
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				err = w.BeginObject()
				stack = append(stack, frame{object: true, expectingKey: true})
			case '}':
				err = w.EndObject()
				stack = stack[:len(stack)-1]
			case '[':
				err = w.BeginArray()
				stack = append(stack, frame{object: false})
			case ']':
				err = w.EndArray()
				stack = stack[:len(stack)-1]
			}
		case string:
			err = w.WriteString(v)
		case json.Number:
			err = w.WriteRawValue([]byte(v.String()))
		case bool:
			err = w.WriteBool(v)
		case nil:
			err = w.WriteNull()
		}
		if err != nil {
			return err
		}
		if n := len(stack); n > 0 && stack[n-1].object {
			stack[n-1].expectingKey = true
		}
	}
}

func emitYAMLInput(w *jsonw.Writer, in io.Reader) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	return emitYAML(w, &doc)
}

func emitYAML(w *jsonw.Writer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return w.WriteNull()
		}
		return emitYAML(w, n.Content[0])
	case yaml.MappingNode:
		if err := w.BeginObject(); err != nil {
			return err
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			if err := w.WriteKey(n.Content[i].Value); err != nil {
				return err
			}
			if err := emitYAML(w, n.Content[i+1]); err != nil {
				return err
			}
		}
		return w.EndObject()
	case yaml.SequenceNode:
		if err := w.BeginArray(); err != nil {
			return err
		}
		for _, c := range n.Content {
			if err := emitYAML(w, c); err != nil {
				return err
			}
		}
		return w.EndArray()
	case yaml.AliasNode:
		return emitYAML(w, n.Alias)
	case yaml.ScalarNode:
		return emitYAMLScalar(w, n)
	}
	return fmt.Errorf("jsonw: unsupported YAML node kind %d", n.Kind)
}

func emitYAMLScalar(w *jsonw.Writer, n *yaml.Node) error {
	switch n.Tag {
	case "!!null":
		return w.WriteNull()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return w.WriteBool(b)
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return w.WriteInt(i)
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return w.WriteUint(u)
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			if err := w.WriteFloat(f); err == nil || jsonw.CodeOf(err) != jsonw.CodeUnsupportedValue {
				return err
			}
		}
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err == nil {
			return w.WriteTime(t)
		}
	}
	// Unresolvable or exotic scalars are carried as strings.
	return w.WriteString(n.Value)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "jsonw: "+format+"\n", args...)
	os.Exit(1)
}
