// Where: internal/app/args.go
// What: Argument vector partitioning.
// Why: Route wrapper flags and docker passthrough arguments separately.
package app

// separator marks the boundary between wrapper-owned and passthrough
// arguments.
const separator = "--"

// SplitArgs partitions an argument vector at the first "--" separator.
// Arguments before it belong to the wrapper; everything after it is
// forwarded to the docker client verbatim and unreordered, including any
// further separators. Without a separator, every argument belongs to the
// wrapper and the docker client receives an empty argument list.
func SplitArgs(args []string) (wrapperArgs, dockerArgs []string) {
	for i, arg := range args {
		if arg == separator {
			return args[:i], args[i+1:]
		}
	}
	return args, nil
}
