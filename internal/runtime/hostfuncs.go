package runtime

import (
	"context"
	"log/slog"

	"github.com/risor-io/risor/object"

	"github.com/jward/codeimport"
)

// makeParseRefFn creates the "parse_ref" host function.
//
// parse_ref(meta) → {path, start, end, is_range}
//
// Absent line numbers are 0.
func makeParseRefFn() *object.Builtin {
	return object.NewBuiltin("parse_ref", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("parse_ref", 1, len(args))
		}
		meta, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("parse_ref: reference must be a string, got %s", args[0].Type())
		}

		ref, err := codeimport.ParseReference(meta.Value())
		if err != nil {
			return object.Errorf("parse_ref: %v", err)
		}
		return object.NewMap(map[string]object.Object{
			"path":     object.NewString(ref.Path),
			"start":    object.NewInt(int64(ref.Start)),
			"end":      object.NewInt(int64(ref.End)),
			"is_range": object.NewBool(ref.IsRange),
		})
	})
}

// makeResolvePathFn creates the "resolve_path" host function.
//
// resolve_path(meta, base_dir) → string
func makeResolvePathFn(im *codeimport.Importer) *object.Builtin {
	return object.NewBuiltin("resolve_path", func(ctx context.Context, args ...object.Object) object.Object {
		meta, baseDir, errObj := twoStrings("resolve_path", args)
		if errObj != nil {
			return errObj
		}
		_, path, err := im.Resolve(meta, baseDir)
		if err != nil {
			return object.Errorf("resolve_path: %v", err)
		}
		return object.NewString(path)
	})
}

// makeImportLinesFn creates the "import_lines" host function.
//
// import_lines(meta, base_dir) → []string
func makeImportLinesFn(im *codeimport.Importer) *object.Builtin {
	return object.NewBuiltin("import_lines", func(ctx context.Context, args ...object.Object) object.Object {
		meta, baseDir, errObj := twoStrings("import_lines", args)
		if errObj != nil {
			return errObj
		}
		lines, err := im.Import(meta, baseDir)
		if err != nil {
			return object.Errorf("import_lines: %v", err)
		}
		items := make([]object.Object, len(lines))
		for i, l := range lines {
			items[i] = object.NewString(l)
		}
		return object.NewList(items)
	})
}

// makeRenderMarkdownFn creates the "render_markdown" host function.
//
// render_markdown(src, doc_path) → string
func makeRenderMarkdownFn(im *codeimport.Importer) *object.Builtin {
	return object.NewBuiltin("render_markdown", func(ctx context.Context, args ...object.Object) object.Object {
		src, docPath, errObj := twoStrings("render_markdown", args)
		if errObj != nil {
			return errObj
		}
		out, _, err := im.RenderMarkdown([]byte(src), docPath)
		if err != nil {
			return object.Errorf("render_markdown: %v", err)
		}
		return object.NewString(string(out))
	})
}

func twoStrings(name string, args []object.Object) (string, string, object.Object) {
	if len(args) != 2 {
		return "", "", object.NewArgsError(name, 2, len(args))
	}
	a, ok := args[0].(*object.String)
	if !ok {
		return "", "", object.Errorf("%s: first argument must be a string, got %s", name, args[0].Type())
	}
	b, ok := args[1].(*object.String)
	if !ok {
		return "", "", object.Errorf("%s: second argument must be a string, got %s", name, args[1].Type())
	}
	return a.Value(), b.Value(), nil
}

// logObject provides log.Info/Warn/Error methods for Risor scripts.
type logObject struct {
	logger *slog.Logger
}

func (l *logObject) Info(msg string) {
	l.logger.Info(msg, "source", "script")
}

func (l *logObject) Warn(msg string) {
	l.logger.Warn(msg, "source", "script")
}

func (l *logObject) Error(msg string) {
	l.logger.Error(msg, "source", "script")
}
