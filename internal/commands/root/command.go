package root

import (
	"github.com/artuross/sexpc/internal/commands/check"
	"github.com/artuross/sexpc/internal/commands/compile"
	"github.com/artuross/sexpc/internal/commands/remote"
	"github.com/artuross/sexpc/internal/commands/serve"
	"github.com/artuross/sexpc/internal/commands/watch"
	cli "github.com/urfave/cli/v2"
)

func NewCommand() *cli.App {
	return &cli.App{
		Name:  "sexpc",
		Usage: "Compiles LISP style s-expressions to C-like function calls.",
		Commands: []*cli.Command{
			compile.NewCommand(),
			check.NewCommand(),
			watch.NewCommand(),
			serve.NewCommand(),
			remote.NewCommand(),
		},
	}
}
