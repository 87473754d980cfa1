package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of each part of a pretty log message.
// Styles render plain text when the output is not a color terminal.
type palette struct {
	key, str, num, dur, time, null lipgloss.Style
	yes, no                        lipgloss.Style
	level                          map[Level]lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &palette{
		key:  fg("8"),
		str:  fg("6"),
		num:  fg("3"),
		dur:  fg("5"),
		time: fg("4"),
		null: fg("8"),
		yes:  fg("2"),
		no:   fg("1"),
		level: map[Level]lipgloss.Style{
			LevelTrace: fg("8"),
			LevelDebug: fg("4"),
			LevelInfo:  fg("2").Bold(true),
			LevelWarn:  fg("3").Bold(true),
			LevelError: fg("1").Bold(true),
		},
	}
}

// levelStyle returns the style of the nearest named level at or below l.
func (p *palette) levelStyle(l Level) lipgloss.Style {
	for _, named := range []Level{LevelError, LevelWarn, LevelInfo, LevelDebug} {
		if l >= named {
			return p.level[named]
		}
	}

	return p.level[LevelTrace]
}

// value renders v with the style of its kind.
func (p *palette) value(v slog.Value) string {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())
	case slog.KindInt64:
		return p.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return p.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return p.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")
	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())
	case slog.KindTime:
		return p.time.Render(v.Time().Format(time.RFC3339))
	case slog.KindAny:
		if v.Any() == nil {
			return p.null.Render("null")
		}

		if err, ok := v.Any().(error); ok {
			return p.no.Render(err.Error())
		}
	}

	return p.str.Render(v.String())
}

// prefix is the leading part of a pretty record shared by both handlers.
type prefix struct {
	time, level, source string
}

func makePrefix(opts *slog.HandlerOptions, r slog.Record) prefix {
	var p prefix

	if !r.Time.IsZero() {
		a := slog.Time(slog.TimeKey, r.Time)
		if opts.ReplaceAttr != nil {
			a = opts.ReplaceAttr(nil, a)
		}

		if !a.Equal(slog.Attr{}) {
			p.time = a.Value.String()
		}
	}

	p.level = strings.ToUpper(Level(r.Level).String())

	if opts.AddSource {
		if src := r.Source(); src != nil {
			p.source = fmt.Sprintf("%s:%d", src.File, src.Line)
		}
	}

	return p
}

// prettyTextHandler writes one line per record with styled keys and values.
type prettyTextHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	colors *palette
	attrs  []slog.Attr
	group  string
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		colors: newPalette(w),
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	p := makePrefix(&h.opts, r)

	if p.time != "" {
		buf.WriteString(h.colors.time.Render(p.time))
		buf.WriteByte(' ')
	}

	buf.WriteString(h.colors.levelStyle(Level(r.Level)).Render(p.level))

	if p.source != "" {
		buf.WriteByte(' ')
		buf.WriteString(h.colors.key.Render(p.source))
	}

	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		h.writeAttr(buf, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.group, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if group != "" {
		key = group + "." + key
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, key, ga)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.colors.key.Render(key + "="))
	buf.WriteString(h.colors.value(a.Value))
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], qualify(h.group, attrs)...)

	return &c
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.group = joinGroup(h.group, name)

	return &c
}

// prettyJSONHandler writes each record as an indented, styled object.
type prettyJSONHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	colors *palette
	attrs  []slog.Attr
	group  string
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		colors: newPalette(w),
	}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var fields []string

	field := func(key, value string) {
		fields = append(fields, "  "+h.colors.key.Render(strconv.Quote(key))+": "+value)
	}

	p := makePrefix(&h.opts, r)

	if p.time != "" {
		field(slog.TimeKey, h.colors.time.Render(strconv.Quote(p.time)))
	}

	field(slog.LevelKey,
		h.colors.levelStyle(Level(r.Level)).Render(strconv.Quote(p.level)))

	if p.source != "" {
		field(slog.SourceKey, h.colors.str.Render(strconv.Quote(p.source)))
	}

	field(slog.MessageKey, h.colors.str.Render(strconv.Quote(r.Message)))

	add := func(group string, a slog.Attr) {
		for key, v := range flatten(group, a) {
			field(key, h.jsonValue(v))
		}
	}

	for _, a := range h.attrs {
		add("", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		add(h.group, a)

		return true
	})

	out := "{\n" + strings.Join(fields, ",\n") + "\n}\n"

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.w, out)

	return err
}

func (h *prettyJSONHandler) jsonValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString, slog.KindDuration, slog.KindTime:
		return h.colors.str.Render(strconv.Quote(v.String()))
	case slog.KindAny:
		if v.Any() == nil {
			return h.colors.null.Render("null")
		}

		return h.colors.str.Render(strconv.Quote(v.String()))
	default:
		return h.colors.value(v)
	}
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], qualify(h.group, attrs)...)

	return &c
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.group = joinGroup(h.group, name)

	return &c
}

// qualify nests attrs in group, if any.
func qualify(group string, attrs []slog.Attr) []slog.Attr {
	if group == "" {
		return attrs
	}

	return []slog.Attr{{Key: group, Value: slog.GroupValue(attrs...)}}
}

func joinGroup(group, name string) string {
	switch {
	case name == "":
		return group
	case group == "":
		return name
	default:
		return group + "." + name
	}
}

// flatten yields each leaf of a with its key qualified by the enclosing
// group names.
func flatten(group string, a slog.Attr) iter.Seq2[string, slog.Value] {
	return func(yield func(string, slog.Value) bool) {
		var walk func(string, slog.Attr) bool

		walk = func(outer string, a slog.Attr) bool {
			a.Value = a.Value.Resolve()
			if a.Equal(slog.Attr{}) {
				return true
			}

			key := joinGroup(outer, a.Key)

			if a.Value.Kind() != slog.KindGroup {
				return yield(key, a.Value)
			}

			for _, ga := range a.Value.Group() {
				if !walk(key, ga) {
					return false
				}
			}

			return true
		}

		walk(group, a)
	}
}
