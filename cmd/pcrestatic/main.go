package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	pcre "github.com/0x4d5352/pcrestatic"
	"github.com/0x4d5352/pcrestatic/internal/ast"
	"github.com/0x4d5352/pcrestatic/internal/dump"
	"github.com/0x4d5352/pcrestatic/internal/explain"
	"github.com/0x4d5352/pcrestatic/internal/graph"
	"github.com/0x4d5352/pcrestatic/internal/highlight"
	"github.com/0x4d5352/pcrestatic/internal/parser"
	"github.com/0x4d5352/pcrestatic/internal/redos"
	"github.com/0x4d5352/pcrestatic/internal/sample"
	"github.com/0x4d5352/pcrestatic/internal/unescape"
)

var version = "0.1.0"

func main() {
	var stdin io.Reader
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		stdin = os.Stdin
	}
	if err := run(os.Args, stdin, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("pcrestatic", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	format := fs.StringP("format", "f", "validate", "Output format: tokens, ast, validate, recompile, optimize, redos, complexity, explain, html-explain, sample, svg, mermaid, highlight")
	output := fs.StringP("output", "o", "", "Output file path (default: stdout)")
	showVersion := fs.BoolP("version", "v", false, "Show version")
	unescapeFlag := fs.Bool("unescape", false, "Unescape string-literal-wrapped doubled backslashes before parsing")
	maxPatternLength := fs.Int("max-pattern-length", 10_000, "Maximum pattern body length")
	maxNodes := fs.Int("max-nodes", 100_000, "Maximum AST node count")
	maxRecursionDepth := fs.Int("max-recursion-depth", 1_000, "Maximum parser recursion depth")
	seed := fs.Int64("seed", 1, "Random seed for -format sample")
	ignore := fs.StringSlice("ignore", nil, "Patterns, as recompiled (e.g. '/(a+)+b/'), to report as ReDoS-safe")
	noColor := fs.Bool("no-color", false, "Disable ANSI highlighting even on a terminal")
	copyFlag := fs.Bool("copy", false, "Copy recompile/optimize output to the clipboard via OSC52")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "pcrestatic - static analysis for PCRE patterns\n\n")
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  pcrestatic [flags] <pattern>\n")
		fmt.Fprintf(stderr, "  echo 'pattern' | pcrestatic [flags]\n\n")
		fmt.Fprintf(stderr, "Arguments:\n")
		fmt.Fprintf(stderr, "  pattern    Delimited PCRE pattern, e.g. '/a(b|c)+/i' (reads from stdin if omitted)\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  pcrestatic '/a|b|c/'\n")
		fmt.Fprintf(stderr, "  pcrestatic --format svg -o diagram.svg '/[a-z]+/i'\n")
		fmt.Fprintf(stderr, "  pcrestatic --format redos '/(a+)+b/'\n")
	}

	err := fs.Parse(args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "pcrestatic version %s\n", version)
		return nil
	}

	logger, logErr := zap.NewProduction()
	if logErr != nil {
		logger = zap.NewNop()
	}
	sugar := logger.Sugar()
	defer sugar.Sync() // Sync can fail on a plain stdout pipe; error is not actionable here.

	pattern, err := getInput(fs.Args(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fs.Usage()
		return err
	}
	if *unescapeFlag {
		pattern = unescape.JavaStringLiteral(pattern)
	} else if unescape.ContainsDoubleEscapes(pattern) {
		fmt.Fprintf(stderr, "Note: pattern contains doubled backslashes; pass --unescape if it was copied from a string literal\n")
	}

	limits := parser.Limits{
		MaxPatternLength:  *maxPatternLength,
		MaxNodes:          *maxNodes,
		MaxRecursionDepth: *maxRecursionDepth,
	}

	re, err := pcre.Parse(pattern, limits)
	if err != nil {
		sugar.Errorw("parse failed", "pattern", pattern, "error", err)
		displayParseError(stderr, pattern, err)
		return fmt.Errorf("parse error: %w", err)
	}
	sugar.Infow("parsed pattern", "delimiter", string(re.Delimiter), "flags", re.Flags)

	ignoreSet := map[string]bool{}
	for _, id := range *ignore {
		ignoreSet[id] = true
	}

	text, werr := render(*format, re, pattern, *seed, ignoreSet, stdout, *noColor)
	if werr != nil {
		sugar.Errorw("render failed", "format", *format, "error", werr)
		return werr
	}

	if *output == "" {
		fmt.Fprintln(stdout, text)
	} else {
		if err := os.WriteFile(*output, []byte(text), 0644); err != nil {
			fmt.Fprintf(stderr, "Error writing output file: %v\n", err)
			return fmt.Errorf("writing output: %w", err)
		}
		fmt.Fprintf(stdout, "Wrote %s\n", *output)
	}

	if *copyFlag {
		fmt.Fprint(stdout, highlight.CopyToClipboardSequence(text))
	}

	return nil
}

func render(format string, re *ast.Regex, pattern string, seed int64, ignoreSet map[string]bool, stdout io.Writer, noColor bool) (string, error) {
	switch format {
	case "tokens":
		toks, _, err := pcre.Tokenize(pattern, parser.DefaultLimits())
		if err != nil {
			return "", err
		}
		var b strings.Builder
		for _, tk := range toks {
			fmt.Fprintf(&b, "%s %q @%d\n", tk.Kind, tk.Value, tk.Offset)
		}
		return b.String(), nil
	case "ast", "dump":
		return dump.Tree(re), nil
	case "validate":
		result := pcre.Validate(re)
		if result.IsValid {
			return "valid", nil
		}
		return "", fmt.Errorf("%s at position %d", result.Message, result.Position)
	case "recompile":
		return pcre.Recompile(re), nil
	case "optimize":
		return pcre.Recompile(pcre.Optimize(re)), nil
	case "redos":
		report := pcre.AnalyzeReDoS(re, redos.Options{IgnorePatterns: ignoreSet})
		var b strings.Builder
		fmt.Fprintf(&b, "severity: %s\n", report.Severity)
		for _, f := range report.Findings {
			fmt.Fprintf(&b, "  [%s] %s (id=%s, pos=%d)\n", f.Severity, f.Reason, f.ID, f.Position)
		}
		return b.String(), nil
	case "complexity":
		r := pcre.Complexity(re)
		var b strings.Builder
		fmt.Fprintf(&b, "score: %d\n", r.Score)
		for k, v := range r.Breakdown {
			fmt.Fprintf(&b, "  %s: %d\n", k, v)
		}
		return b.String(), nil
	case "explain":
		return explain.Prose(re), nil
	case "html-explain":
		return explain.HTML(re), nil
	case "sample":
		return sample.Generate(re, seed)
	case "svg":
		return graph.New(nil).RenderSVG(re), nil
	case "mermaid":
		return graph.RenderMermaid(re), nil
	case "highlight":
		spans := highlight.Spans(re)
		if noColor || !highlight.IsTerminal(stdout) {
			return pattern, nil
		}
		profile := termenv.EnvColorProfile()
		return highlight.ANSI(pattern, spans, highlight.DefaultTheme(), profile), nil
	default:
		return "", fmt.Errorf("unknown format: %s", format)
	}
}

// getInput retrieves the pattern from CLI args or stdin.
func getInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if stdin != nil {
		input, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return strings.TrimSpace(string(input)), nil
	}
	return "", fmt.Errorf("no pattern provided")
}

// displayParseError shows a parse error with a caret position indicator.
func displayParseError(w io.Writer, pattern string, err error) {
	pos := -1
	errStr := err.Error()
	if idx := strings.LastIndex(errStr, "position "); idx != -1 {
		if n, convErr := strconv.Atoi(strings.TrimSpace(errStr[idx+len("position "):])); convErr == nil {
			pos = n
		}
	}
	fmt.Fprintf(w, "Error parsing pattern:\n\n")
	fmt.Fprint(w, highlight.PositionIndicator(pattern, pos))
	fmt.Fprintf(w, "\n%s\n", errStr)
}
