package engine

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/boba/lang/ast"
	"github.com/ardnew/boba/lang/value"
)

// Errors returned by built-in natives. The engine reports them as a failed
// native call at the call site.
var (
	errMissingArgument = errors.New("missing argument")
	errArgumentType    = errors.New("wrong argument type")
)

func argument(args []value.Value, i int) (value.Value, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("%w %d", errMissingArgument, i+1)
	}

	return args[i], nil
}

func stringArgument(args []value.Value, i int) (string, error) {
	v, err := argument(args, i)
	if err != nil {
		return "", err
	}

	s, ok := v.(value.String)
	if !ok {
		return "", fmt.Errorf("%w: argument %d is %s, expected %s",
			errArgumentType, i+1, v.TypeName(), value.TypeString)
	}

	return string(s), nil
}

func stringArguments(args []value.Value) ([]string, error) {
	s := make([]string, len(args))

	for i := range args {
		var err error
		if s[i], err = stringArgument(args, i); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// nullary adapts a host query to a native taking no arguments.
func nullary(name string, query func() string) ast.Native {
	return ast.NewNative(name, 0, func([]value.Value) (value.Value, error) {
		return value.String(query()), nil
	})
}

// predicate adapts a path test to a native taking one string.
func predicate(name string, test func(string) bool) ast.Native {
	return ast.NewNative(name, 1, func(args []value.Value) (value.Value, error) {
		path, err := stringArgument(args, 0)
		if err != nil {
			return nil, err
		}

		return value.Bool(test(path)), nil
	})
}

// prefix adapts pathPrefix to a native taking a path list followed by any
// number of directories.
func prefix(name string, only func(string) bool) ast.Native {
	return ast.NewNative(name, ast.Variadic, func(args []value.Value) (value.Value, error) {
		list, err := stringArgument(args, 0)
		if err != nil {
			return nil, err
		}

		dirs, err := stringArguments(args[1:])
		if err != nil {
			return nil, err
		}

		return value.String(pathPrefix(list, only, dirs...)), nil
	})
}

func (e *Engine) builtinNatives() []ast.Native {
	return []ast.Native{
		ast.NewNative("print", ast.Variadic, e.print),

		ast.NewNative("type", 1, func(args []value.Value) (value.Value, error) {
			v, err := argument(args, 0)
			if err != nil {
				return nil, err
			}

			return value.String(v.TypeName()), nil
		}),

		ast.NewNative("str", 1, func(args []value.Value) (value.Value, error) {
			v, err := argument(args, 0)
			if err != nil {
				return nil, err
			}

			return value.String(v.String()), nil
		}),

		ast.NewNative("len", 1, func(args []value.Value) (value.Value, error) {
			s, err := stringArgument(args, 0)
			if err != nil {
				return nil, err
			}

			return value.NewInt(int64(utf8.RuneCountInString(s))), nil
		}),

		ast.NewNative("getenv", 1, func(args []value.Value) (value.Value, error) {
			key, err := stringArgument(args, 0)
			if err != nil {
				return nil, err
			}

			if s, ok := e.lookupEnv(key); ok {
				return value.String(s), nil
			}

			return value.None{}, nil
		}),

		nullary("os", hostOS),
		nullary("arch", hostArch),
		nullary("hostname", hostname),
		nullary("cwd", cwd),
		nullary("shell", func() string { return loginShell(e.lookupEnv) }),

		predicate("exists", fileExists),
		predicate("isdir", fileIsDir),
		predicate("isfile", fileIsRegular),
		predicate("islink", fileIsSymlink),

		ast.NewNative("pathabs", 1, func(args []value.Value) (value.Value, error) {
			path, err := stringArgument(args, 0)
			if err != nil {
				return nil, err
			}

			return value.String(pathAbs(path)), nil
		}),

		ast.NewNative("pathjoin", ast.Variadic, func(args []value.Value) (value.Value, error) {
			elem, err := stringArguments(args)
			if err != nil {
				return nil, err
			}

			return value.String(filepath.Join(elem...)), nil
		}),

		ast.NewNative("pathrel", 2, func(args []value.Value) (value.Value, error) {
			from, err := stringArgument(args, 0)
			if err != nil {
				return nil, err
			}

			to, err := stringArgument(args, 1)
			if err != nil {
				return nil, err
			}

			return value.String(pathRel(from, to)), nil
		}),

		prefix("pathprefix", nil),
		prefix("pathprefixdirs", fileIsDir),
	}
}

// print writes the display form of each argument, separated by a space and
// terminated by a newline.
func (e *Engine) print(args []value.Value) (value.Value, error) {
	var sb strings.Builder

	for i, arg := range args {
		if i > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(arg.String())
	}

	sb.WriteByte('\n')

	if _, err := io.WriteString(e.out, sb.String()); err != nil {
		return nil, err
	}

	return value.None{}, nil
}
