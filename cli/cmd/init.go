package cmd

import (
	"context"
	"log/slog"
	"math/big"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/cockroachdb/apd/v3"

	"github.com/ardnew/boba/lang"
	"github.com/ardnew/boba/lang/ast"
	"github.com/ardnew/boba/lang/source"
	"github.com/ardnew/boba/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 4

// Init generates a configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	err = lang.Format(ctx, file, i.buildProgram(ctx), defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	settingsFrom(ctx).Logger.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// buildProgram returns one let statement per configurable flag that has a
// value, in flag order.
func (i *Init) buildProgram(ctx context.Context) []ast.Node[ast.Statement] {
	ktx := kongContextFrom(ctx)

	var program []ast.Node[ast.Statement]

	prefixIgnore := []string{"help", "version", "source", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		x, ok := i.flagValue(ctx, flag.Name)
		if !ok {
			continue
		}

		ident := strings.ReplaceAll(flag.Name, "-", "_")

		program = append(program, ast.NewNode[ast.Statement](source.Span{}, ast.LetStmt{
			Ident: ast.NewNode(source.Span{}, ident),
			Value: ast.NewNode(source.Span{}, x),
		}))
	}

	return program
}

// flagValue returns the literal expression for a CLI flag's current value.
// It reports false for unset flags and for values boba cannot express.
func (i *Init) flagValue(ctx context.Context, name string) (ast.Expr, bool) {
	ktx := kongContextFrom(ctx)

	idx := slices.IndexFunc(ktx.Model.Flags, func(flag *kong.Flag) bool {
		return flag.Name == name
	})
	if idx == -1 {
		return nil, false
	}

	val := ktx.FlagValue(ktx.Model.Flags[idx])
	if val == nil {
		return nil, false
	}

	return literal(val)
}

// literal converts a flag value to a boba literal. Named types such as
// enum flags convert by their underlying kind.
func literal(val any) (ast.Expr, bool) {
	rv := reflect.ValueOf(val)

	switch rv.Kind() {
	case reflect.Bool:
		return ast.Bool{Value: rv.Bool()}, true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ast.Int{Value: big.NewInt(rv.Int())}, true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ast.Int{Value: new(big.Int).SetUint64(rv.Uint())}, true

	case reflect.Float32, reflect.Float64:
		d, err := new(apd.Decimal).SetFloat64(rv.Float())
		if err != nil {
			return nil, false
		}

		return ast.Float{Value: d}, true

	case reflect.String:
		if rv.Len() == 0 {
			return nil, false
		}

		return ast.String{Value: rv.String()}, true

	default:
		// Lists and maps have no boba literal form
		return nil, false
	}
}
