// Package yamlstore reads and writes section trees as YAML documents and
// provides Factory, which binds configuration files in a directory to Go
// values.
//
// Mapping order is preserved in both directions. Comment lines collected
// by the comment package are written above the keys they belong to, and a
// header block, if any, is written at the top of the document.
package yamlstore

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/KimNorgaard/go-cfgtree/comment"
	"github.com/KimNorgaard/go-cfgtree/section"
)

const indent = 2

// Decode parses a YAML document into a section. An empty document yields an
// empty section. The document root must be a mapping.
//
// Integers are returned as int when they fit, floats as float64 and null
// values are dropped.
func Decode(data []byte) (*section.Section, error) {
	var doc any
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("yamlstore: %w", err)
	}
	switch root := doc.(type) {
	case nil:
		return section.New(), nil
	case yaml.MapSlice:
		return fromMapSlice(root), nil
	default:
		return nil, fmt.Errorf("yamlstore: document root is %s, not a mapping", kindOf(root))
	}
}

// Load reads a YAML document from r and parses it with Decode.
func Load(r io.Reader) (*section.Section, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("yamlstore: %w", err)
	}
	return Decode(data)
}

// Encode renders sec as a YAML document. Each entry in comments is keyed
// by a dotted key path and written above that key; paths that do not
// exist in sec are ignored. The header lines come first.
func Encode(sec *section.Section, comments map[string][]string, header []string) ([]byte, error) {
	var out bytes.Buffer
	if len(header) > 0 {
		var b strings.Builder
		comment.Encode(header, &b)
		out.WriteString(b.String())
	}
	if sec.Len() == 0 {
		return out.Bytes(), nil
	}

	opts := []yaml.EncodeOption{yaml.Indent(indent), yaml.IndentSequence(true)}
	if cm := commentMap(sec, comments); len(cm) > 0 {
		opts = append(opts, yaml.WithComment(cm))
	}
	body, err := yaml.MarshalWithOptions(toMapSlice(sec), opts...)
	if err != nil {
		return nil, fmt.Errorf("yamlstore: %w", err)
	}
	out.Write(body)
	return out.Bytes(), nil
}

// Write renders sec with Encode and writes the result to w.
func Write(w io.Writer, sec *section.Section, comments map[string][]string, header []string) error {
	data, err := Encode(sec, comments, header)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("yamlstore: %w", err)
	}
	return nil
}

func fromMapSlice(ms yaml.MapSlice) *section.Section {
	sec := section.New()
	for _, item := range ms {
		v := fromYAML(item.Value)
		if v == nil {
			continue
		}
		sec.SetKey(fmt.Sprint(item.Key), v)
	}
	return sec
}

func fromYAML(v any) any {
	switch n := v.(type) {
	case yaml.MapSlice:
		return fromMapSlice(n)
	case []any:
		seq := make([]any, 0, len(n))
		for _, e := range n {
			if e = fromYAML(e); e != nil {
				seq = append(seq, e)
			}
		}
		return seq
	case int64:
		if n >= math.MinInt && n <= math.MaxInt {
			return int(n)
		}
		return n
	case uint64:
		if n <= math.MaxInt {
			return int(n)
		}
		return n
	default:
		return v
	}
}

func toMapSlice(sec *section.Section) yaml.MapSlice {
	ms := make(yaml.MapSlice, 0, sec.Len())
	sec.Each(func(key string, value any) bool {
		ms = append(ms, yaml.MapItem{Key: key, Value: toYAML(value)})
		return true
	})
	return ms
}

func toYAML(v any) any {
	switch n := v.(type) {
	case *section.Section:
		return toMapSlice(n)
	case []any:
		seq := make([]any, len(n))
		for i, e := range n {
			seq[i] = toYAML(e)
		}
		return seq
	default:
		return v
	}
}

// commentMap converts dotted key paths into YAML paths, keeping only those
// that name a key present in sec.
func commentMap(sec *section.Section, comments map[string][]string) yaml.CommentMap {
	cm := make(yaml.CommentMap, len(comments))
	for path, lines := range comments {
		if len(lines) == 0 {
			continue
		}
		keys := strings.Split(path, section.PathSeparator)
		if !exists(sec, keys) {
			continue
		}
		b := (&yaml.PathBuilder{}).Root()
		for _, k := range keys {
			b = b.Child(k)
		}
		texts := make([]string, len(lines))
		for i, l := range lines {
			if l != "" {
				l = " " + l
			}
			texts[i] = l
		}
		cm[b.Build().String()] = []*yaml.Comment{yaml.HeadComment(texts...)}
	}
	return cm
}

func exists(sec *section.Section, keys []string) bool {
	cur := sec
	for i, k := range keys {
		v, ok := cur.GetKey(k)
		if !ok {
			return false
		}
		if i == len(keys)-1 {
			return true
		}
		if cur, ok = v.(*section.Section); !ok {
			return false
		}
	}
	return false
}

func kindOf(v any) string {
	switch v.(type) {
	case []any:
		return "a sequence"
	default:
		return fmt.Sprintf("a scalar of type %T", v)
	}
}
