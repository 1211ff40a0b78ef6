package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs keeps only the flags named in allowedFlags, together with their
// values, so a flag set can parse its own subset of a shared command line.
// Both "-f value" and "-f=value" forms are recognised; positional arguments
// and unknown flags are dropped.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)

		// a following non-flag argument is the value
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// JsonConfigFlags returns the config file path given via -c or -config,
// or an empty string when neither is present. Only these flags are parsed;
// everything else on the command line is ignored.
func JsonConfigFlags() string {
	return lookupString(os.Args[1:], "config", "c", "")
}

// EnvFileFlag returns the dotenv file path given via -env, defaulting to
// DefaultEnvFile.
func EnvFileFlag() string {
	return lookupString(os.Args[1:], "env", "", DefaultEnvFile)
}

// DefaultEnvFile is the dotenv file read when -env is not given.
const DefaultEnvFile = ".env"

// lookupString parses a single string flag (long name plus optional short
// alias) out of args. The last occurrence wins.
func lookupString(args []string, long, short, def string) string {
	allowed := []string{"-" + long}
	if short != "" {
		allowed = append(allowed, "-"+short)
	}

	value := def
	fs := flag.NewFlagSet(long, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&value, long, def, "")
	if short != "" {
		fs.StringVar(&value, short, def, "")
	}
	_ = fs.Parse(FilterArgs(args, allowed))

	return value
}
