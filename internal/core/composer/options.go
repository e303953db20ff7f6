package composer

import (
	"regexp"
	"strings"
)

// Option is one command-line option forwarded to composer.
type Option struct {
	Name  string
	Value string
	// Flag marks a switch without a value (--prefer-source).
	Flag bool
	// Short marks a single-dash option; Name then holds the letters.
	Short bool
}

// Arg renders the option: "--name", "--name=value" or "-x".
func (o Option) Arg() string {
	if o.Short {
		return "-" + o.Name
	}
	if o.Flag {
		return "--" + o.Name
	}
	return "--" + o.Name + "=" + o.Value
}

// Options is an ordered option set.
type Options []Option

// Flatten renders the options as arguments, dropping valued options whose
// value is empty.
func (opts Options) Flatten() []string {
	args := make([]string, 0, len(opts))
	for _, o := range opts {
		if !o.Flag && !o.Short && o.Value == "" {
			continue
		}
		args = append(args, o.Arg())
	}
	return args
}

// Without returns opts minus every option with one of the given long names.
func (opts Options) Without(names ...string) Options {
	out := make(Options, 0, len(opts))
	for _, o := range opts {
		drop := false
		if !o.Short {
			for _, n := range names {
				if o.Name == n {
					drop = true
					break
				}
			}
		}
		if !drop {
			out = append(out, o)
		}
	}
	return out
}

// Has reports whether a long option called name is present.
func (opts Options) Has(name string) bool {
	for _, o := range opts {
		if !o.Short && o.Name == name {
			return true
		}
	}
	return false
}

// Options that are always recomputed instead of being passed through.
const (
	optWorkingDir = "working-dir"
	optNoUpdate   = "no-update"
	optNoInstall  = "no-install"
)

// valuedOptions are the composer require options that take a value, so a
// following "--name value" argument belongs to them.
var valuedOptions = map[string]bool{
	"prefer-install":         true,
	"ignore-platform-req":    true,
	"apcu-autoloader-prefix": true,
	"audit-format":           true,
}

var platformPackagePattern = regexp.MustCompile(`^(php(-64bit|-ipv6|-zts|-debug)?|hhvm|composer(-plugin-api|-runtime-api)?|ext-.+|lib-.+)([:=<>~^ ].*)?$`)

// looksLikePackage reports whether arg reads as a package spec: vendor/name,
// optionally with a constraint, or a platform package such as php or ext-json.
func looksLikePackage(arg string) bool {
	return strings.Contains(arg, "/") || platformPackagePattern.MatchString(arg)
}

// RequireArgs is the parsed argument list of upstream-require.
type RequireArgs struct {
	Packages []string
	Options  Options
	NoUpdate bool
}

// ParseRequireArgs splits raw upstream-require arguments into package specs
// and pass-through options. The working directory (--working-dir, -d), the
// --no-update and --no-install switches and a bare "--" separator are
// consumed here; --no-update is remembered in NoUpdate.
//
// A bare argument directly after a long option without "=" is that option's
// value when the option is known to take one, or when the argument does not
// look like a package spec. It is then forwarded as --name=value.
func ParseRequireArgs(args []string) RequireArgs {
	var parsed RequireArgs
	var opts Options

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			continue
		case strings.HasPrefix(arg, "--"):
			name, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
			if !hasValue && i+1 < len(args) && takesNext(name, args[i+1]) {
				i++
				value, hasValue = args[i], true
			}
			opts = append(opts, Option{Name: name, Value: value, Flag: !hasValue})
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			letters := strings.TrimPrefix(arg, "-")
			if strings.HasPrefix(letters, "d") {
				// -d <dir> or -d<dir>
				if letters == "d" && i+1 < len(args) {
					i++
				}
				continue
			}
			opts = append(opts, Option{Name: letters, Short: true})
		default:
			parsed.Packages = append(parsed.Packages, arg)
		}
	}

	parsed.NoUpdate = opts.Has(optNoUpdate)
	parsed.Options = opts.Without(optWorkingDir, optNoUpdate, optNoInstall)
	return parsed
}

// takesNext reports whether next is the value of the long option name.
func takesNext(name, next string) bool {
	switch {
	case name == optWorkingDir:
		return true
	case name == optNoUpdate || name == optNoInstall:
		return false
	case next == "--" || strings.HasPrefix(next, "-"):
		return false
	case valuedOptions[name]:
		return true
	}
	return !looksLikePackage(next)
}
