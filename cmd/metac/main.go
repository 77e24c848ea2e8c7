package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/alecthomas/repr"
	"github.com/go-logr/logr/funcr"
	"github.com/tebeka/atexit"
	"github.com/urfave/cli/v2"

	"github.com/kartiknair/metac/pkg/compiler"
	"github.com/kartiknair/metac/pkg/emit"
	"github.com/kartiknair/metac/pkg/listing"
	"github.com/kartiknair/metac/pkg/scanner"
	"github.com/kartiknair/metac/pkg/source"
)

func readSource(path string) (*source.File, error) {
	var (
		text []byte
		err  error
	)

	if path == "" || path == "-" {
		path = "<stdin>"
		text, err = io.ReadAll(os.Stdin)
	} else {
		text, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("Failed while attempting to read %s.\n%w", path, err)
	}

	return &source.File{Path: path, Text: text}, nil
}

func compileFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "trace",
			Usage:   "Write a step-by-step trace of the translation to stderr.",
			EnvVars: []string{"METAC_TRACE"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write the instructions to `FILE` instead of stdout.",
		},
	}
}

func compileAction(c *cli.Context) error {
	if c.Args().Len() > 1 {
		return errors.New("Too many arguments provided.\nCompile takes at most one grammar file.")
	}

	file, err := readSource(c.Args().First())
	if err != nil {
		return err
	}

	out := os.Stdout
	if name := c.String("output"); name != "" {
		out, err = os.Create(name)
		if err != nil {
			return fmt.Errorf("Failed while creating output file.\n%w", err)
		}
	}

	// lines emitted before a syntax error still go out
	w := emit.NewWriter(out)
	atexit.Register(func() {
		w.Flush()
		if out != os.Stdout {
			out.Close()
		}
	})

	opts := compiler.Options{
		Trace: c.Bool("trace"),
		Logger: funcr.New(func(prefix, args string) {
			fmt.Fprintln(os.Stderr, "trace:", args)
		}, funcr.Options{Verbosity: 1}),
	}

	if err := compiler.Compile(file.Text, w, opts); err != nil {
		var serr *scanner.Error
		if errors.As(err, &serr) {
			return fmt.Errorf(
				"%s\nsyntax-error: %s: %s: %s",
				file.Context(serr.Pos), file.Path, file.Position(serr.Pos), serr,
			)
		}
		return err
	}

	return w.Flush()
}

func checkAction(c *cli.Context) error {
	if c.Args().Len() > 1 {
		return errors.New("Too many arguments provided.\nCheck takes at most one listing file.")
	}

	file, err := readSource(c.Args().First())
	if err != nil {
		return err
	}

	lines, err := listing.Parse(bytes.NewReader(file.Text))
	if err != nil {
		return err
	}

	if c.Bool("dump") {
		repr.Println(lines)
	}

	issues := listing.Check(lines)
	for _, issue := range issues {
		fmt.Println(issue)
	}
	if len(issues) > 0 {
		return fmt.Errorf("%s: %d issues found", file.Path, len(issues))
	}

	return nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("metac: ")

	app := &cli.App{
		Name:   "metac",
		Usage:  "A META II metacompiler. Reads a grammar on stdin, writes parsing machine code.",
		Flags:  compileFlags(),
		Action: compileAction,
		Commands: []*cli.Command{
			{
				Name:      "compile",
				Usage:     "Compiles a grammar (stdin when FILE is missing or `-`).",
				ArgsUsage: "[FILE]",
				Flags:     compileFlags(),
				Action:    compileAction,
			},
			{
				Name:      "check",
				Usage:     "Checks an emitted instruction listing for dangling labels and structural defects.",
				ArgsUsage: "[FILE]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dump",
						Usage: "Print the parsed listing.",
					},
				},
				Action: checkAction,
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Print(err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
