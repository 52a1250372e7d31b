package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/revelaction/morphrob/render"
)

// Option structs for subcommands that have flags
type AnnotateOptions struct {
	ConfigPath string
	Artifacts  string
	Workers    int
	Analyzer   string
	Variant    string
	NoProgress bool
}

type ShowOptions struct {
	RepoPath string
	Format   string
	NoFeats  bool
}

type SentenceOptions struct {
	RepoPath string
}

type StatOptions struct {
	RepoPath string
}

type SearchOptions struct {
	RepoPath string
	JSON     bool
	NoColor  bool
	NoPrefix bool
	Format   string
	Article  *int // nil = not set
	Limit    int
}

type QueryOptions struct {
	RepoPath string
	NoColor  bool
	NoPrefix bool
	Format   string
}

type ImportOptions struct {
	From string
	To   string
}

type ExportOptions struct {
	From string
	To   string
}

// enumFlag implements flag.Value for restricted strings
type enumFlag struct {
	allowed []string
	value   *string
}

func (e *enumFlag) String() string {
	if e.value == nil {
		return ""
	}
	return *e.value
}

func (e *enumFlag) Set(value string) error {
	for _, a := range e.allowed {
		if a == value {
			*e.value = value
			return nil
		}
	}
	return fmt.Errorf("allowed values are %s", strings.Join(e.allowed, ", "))
}

// optionalInt implements flag.Value for optional integer flags
type optionalInt struct {
	value *int
}

func (o *optionalInt) String() string {
	if o.value == nil {
		return ""
	}
	return strconv.Itoa(*o.value)
}

func (o *optionalInt) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	o.value = &v
	return nil
}

func parseMainArgs(args []string, ui UI) (string, []string, error) {
	fs := flag.NewFlagSet("morphrob", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	setupUsage(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return "", nil, err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return "", nil, err
	}

	if fs.NArg() == 0 {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return "", nil, errors.New("no command provided")
	}

	cmd := fs.Arg(0)
	cmdArgs := fs.Args()[1:]
	return cmd, cmdArgs, nil
}

func parseAnnotateArgs(args []string, ui UI) (AnnotateOptions, string, error) {
	fs := flag.NewFlagSet("annotate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts AnnotateOptions
	fs.StringVar(&opts.ConfigPath, "config", os.Getenv("MORPHROB_CONFIG"), "Path to the YAML configuration file")
	fs.StringVar(&opts.ConfigPath, "c", os.Getenv("MORPHROB_CONFIG"), "alias for -config")

	fs.StringVar(&opts.Artifacts, "artifacts", "", "Directory for the CONLL-U artifacts (defaults to the dataset directory)")
	fs.StringVar(&opts.Artifacts, "a", "", "alias for -artifacts")

	fs.IntVar(&opts.Workers, "workers", 0, "Number of articles annotated concurrently (0 = from config)")
	fs.IntVar(&opts.Workers, "w", 0, "alias for -workers")

	analyzerFlag := &enumFlag{allowed: []string{"mystem", "pymorphy"}, value: &opts.Analyzer}
	fs.Var(analyzerFlag, "analyzer", "Morphological analyzer backend (mystem, pymorphy)")

	variantFlag := &enumFlag{allowed: []string{"mystem", "opencorpora"}, value: &opts.Variant}
	fs.Var(variantFlag, "variant", "Tagset of the analyzer output (mystem, opencorpora)")

	fs.BoolVar(&opts.NoProgress, "no-progress", false, "Disable the progress bar")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s annotate [options] <dataset_dir>\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Validate the dataset and write the cleaned text and CONLL-U artifacts per article.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return opts, "", err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return opts, "", err
	}

	if fs.NArg() != 1 {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return opts, "", errors.New("annotate command needs exactly one argument: <dataset_dir>")
	}

	return opts, fs.Arg(0), nil
}

func parseValidateArgs(args []string, ui UI) (string, error) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s validate <dataset_dir>\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Check the dataset directory for missing, inconsistent or empty article files.\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return "", err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return "", err
	}

	if fs.NArg() != 1 {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return "", errors.New("validate command needs exactly one argument: <dataset_dir>")
	}

	return fs.Arg(0), nil
}

func parseShowArgs(args []string, ui UI) (ShowOptions, int, error) {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts ShowOptions
	fs.StringVar(&opts.RepoPath, "repo", os.Getenv("MORPHROB_REPO"), "Path to the artifact directory or SQLite file")
	fs.StringVar(&opts.RepoPath, "r", os.Getenv("MORPHROB_REPO"), "alias for -repo")

	opts.Format = "text"
	formatFlag := &enumFlag{allowed: []string{"text", "conllu", "cleaned", "json"}, value: &opts.Format}
	fs.Var(formatFlag, "format", "Show sentences as plain text (text), CONLL-U blocks (conllu), cleaned lines (cleaned) or JSON (json)")
	fs.Var(formatFlag, "f", "alias for -format")

	fs.BoolVar(&opts.NoFeats, "no-feats", false, "Omit the morphological features in the conllu format")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s show [options] <articleId>\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Show the annotated sentences of an article.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return opts, 0, err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return opts, 0, err
	}

	if opts.RepoPath == "" {
		return opts, 0, errors.New("Repo path must be specified via -r or MORPHROB_REPO")
	}

	if fs.NArg() != 1 {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return opts, 0, errors.New("show command needs exactly one argument: <articleId>")
	}

	articleID, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return opts, 0, fmt.Errorf("invalid articleId: %v", err)
	}

	return opts, articleID, nil
}

func parseSentenceArgs(args []string, ui UI) (SentenceOptions, int, int, error) {
	fs := flag.NewFlagSet("sentence", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts SentenceOptions
	fs.StringVar(&opts.RepoPath, "repo", os.Getenv("MORPHROB_REPO"), "Path to the artifact directory or SQLite file")
	fs.StringVar(&opts.RepoPath, "r", os.Getenv("MORPHROB_REPO"), "alias for -repo")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s sentence [options] <articleId> <sentenceId>\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Show a specific sentence with its token annotations.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return opts, 0, 0, err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return opts, 0, 0, err
	}

	if opts.RepoPath == "" {
		return opts, 0, 0, errors.New("Repo path must be specified via -r or MORPHROB_REPO")
	}

	if fs.NArg() != 2 {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return opts, 0, 0, errors.New("sentence command needs exactly two arguments: <articleId> <sentenceId>")
	}

	articleID, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return opts, 0, 0, fmt.Errorf("invalid articleId: %v", err)
	}

	sentPos, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return opts, 0, 0, fmt.Errorf("invalid sentenceId: %v", err)
	}

	return opts, articleID, sentPos, nil
}

func parseStatArgs(args []string, ui UI) (StatOptions, *int, error) {
	fs := flag.NewFlagSet("stat", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts StatOptions
	fs.StringVar(&opts.RepoPath, "repo", os.Getenv("MORPHROB_REPO"), "Path to the artifact directory or SQLite file")
	fs.StringVar(&opts.RepoPath, "r", os.Getenv("MORPHROB_REPO"), "alias for -repo")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s stat [options] [articleId]\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Show statistics for the whole corpus or a single article.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return opts, nil, err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return opts, nil, err
	}

	if opts.RepoPath == "" {
		return opts, nil, errors.New("Repo path must be specified via -r or MORPHROB_REPO")
	}

	if fs.NArg() > 1 {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return opts, nil, errors.New("stat command accepts at most one argument")
	}

	if fs.NArg() == 1 {
		articleID, err := strconv.Atoi(fs.Arg(0))
		if err != nil {
			return opts, nil, fmt.Errorf("invalid articleId: %v", err)
		}
		return opts, &articleID, nil
	}

	return opts, nil, nil
}

func parseSearchArgs(args []string, ui UI) (SearchOptions, []string, error) {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts SearchOptions
	fs.StringVar(&opts.RepoPath, "repo", os.Getenv("MORPHROB_REPO"), "Path to the artifact directory or SQLite file")
	fs.StringVar(&opts.RepoPath, "r", os.Getenv("MORPHROB_REPO"), "alias for -repo")

	fs.BoolVar(&opts.JSON, "json", false, "Output matches as JSON")
	fs.BoolVar(&opts.JSON, "j", false, "alias for -json")

	fs.BoolVar(&opts.NoColor, "no-color", false, "Show matched sentences without formatting (color)")
	fs.BoolVar(&opts.NoColor, "c", false, "alias for -no-color")

	fs.BoolVar(&opts.NoPrefix, "no-prefix", false, "Show matched sentences without prefixes with metadata")
	fs.BoolVar(&opts.NoPrefix, "x", false, "alias for -no-prefix")

	var articleOpt optionalInt
	fs.Var(&articleOpt, "article", "Limit search to the article specified by this number")
	fs.Var(&articleOpt, "d", "alias for -article")

	fs.IntVar(&opts.Limit, "limit", 2000, "Maximum number of candidate sentences to scan")
	fs.IntVar(&opts.Limit, "n", 2000, "alias for -limit")

	opts.Format = render.DefaultFormat
	formatFlag := &enumFlag{allowed: render.SupportedFormats(), value: &opts.Format}
	fs.Var(formatFlag, "format", "Show whole sentence (all), only surrounding of matched words (part) or only matched lemmas (lemma)")
	fs.Var(formatFlag, "f", "alias for -format")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s search [options] <expr item> ...\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Search sentences by lemma, POS tag (pos=NOUN) or feature (feat=case=Nom). Prefix an item with ! to negate it.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return opts, nil, err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return opts, nil, err
	}

	opts.Article = articleOpt.value

	if opts.RepoPath == "" {
		return opts, nil, errors.New("Repo path must be specified via -r or MORPHROB_REPO")
	}

	if fs.NArg() < 1 {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return opts, nil, errors.New("search command needs at least one argument")
	}

	return opts, fs.Args(), nil
}

func parseQueryArgs(args []string, ui UI) (QueryOptions, error) {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts QueryOptions
	fs.StringVar(&opts.RepoPath, "repo", os.Getenv("MORPHROB_REPO"), "Path to the artifact directory or SQLite file")
	fs.StringVar(&opts.RepoPath, "r", os.Getenv("MORPHROB_REPO"), "alias for -repo")

	fs.BoolVar(&opts.NoColor, "no-color", false, "Show matched sentences without formatting (color)")
	fs.BoolVar(&opts.NoColor, "c", false, "alias for -no-color")

	fs.BoolVar(&opts.NoPrefix, "no-prefix", false, "Show matched sentences without prefixes with metadata")
	fs.BoolVar(&opts.NoPrefix, "x", false, "alias for -no-prefix")

	opts.Format = render.DefaultFormat
	formatFlag := &enumFlag{allowed: render.SupportedFormats(), value: &opts.Format}
	fs.Var(formatFlag, "format", "Show whole sentence (all), only surrounding of matched words (part) or only matched lemmas (lemma)")
	fs.Var(formatFlag, "f", "alias for -format")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s query [options]\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Enter interactive query mode.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return opts, err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return opts, err
	}

	if opts.RepoPath == "" {
		return opts, errors.New("Repo path must be specified via -r or MORPHROB_REPO")
	}

	return opts, nil
}

func parseImportArgs(args []string, ui UI) (ImportOptions, error) {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts ImportOptions
	fs.StringVar(&opts.From, "from", "", "Source artifact directory")
	fs.StringVar(&opts.To, "to", "", "Target SQLite database file")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s import --from <dir> --to <sqlite_file>\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if opts.From == "" || opts.To == "" {
		return opts, errors.New("--from and --to are required")
	}

	return opts, nil
}

func parseExportArgs(args []string, ui UI) (ExportOptions, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts ExportOptions
	fs.StringVar(&opts.From, "from", "", "Source SQLite database file")
	fs.StringVar(&opts.To, "to", "", "Target artifact directory")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s export --from <sqlite_file> --to <dir>\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if opts.From == "" || opts.To == "" {
		return opts, errors.New("--from and --to are required")
	}

	return opts, nil
}

func parseBashArgs(args []string, ui UI) error {
	fs := flag.NewFlagSet("bash", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s bash\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Output bash completion script.\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return err
		}
		return err
	}

	return nil
}

func parseCompleteArgs(args []string, ui UI) ([]string, error) {
	fs := flag.NewFlagSet("complete", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return fs.Args(), nil
}

func setupUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: %s command [command options] [arguments...]\n", os.Args[0])
		_, _ = fmt.Fprintf(output, "\nDescription:\n")
		_, _ = fmt.Fprintf(output, "  Morphological CONLL-U annotation of article datasets\n")
		_, _ = fmt.Fprintf(output, "\nCommands:\n")
		_, _ = fmt.Fprintf(output, "  annotate  Annotate a dataset directory into CONLL-U artifacts.\n")
		_, _ = fmt.Fprintf(output, "  validate  Check a dataset directory for consistency.\n")
		_, _ = fmt.Fprintf(output, "  show      Show the annotated sentences of an article.\n")
		_, _ = fmt.Fprintf(output, "  sentence  Show a specific sentence with its token annotations.\n")
		_, _ = fmt.Fprintf(output, "  stat      Show statistics for the corpus or an article.\n")
		_, _ = fmt.Fprintf(output, "  search    Search sentences by lemma, POS tag or feature.\n")
		_, _ = fmt.Fprintf(output, "  query     Enter interactive query mode.\n")
		_, _ = fmt.Fprintf(output, "  import    Import artifacts from filesystem to SQLite.\n")
		_, _ = fmt.Fprintf(output, "  export    Export articles from SQLite to filesystem.\n")
		_, _ = fmt.Fprintf(output, "  bash      Output bash completion script.\n")
		_, _ = fmt.Fprintf(output, "  version   Show version information.\n")
		_, _ = fmt.Fprintf(output, "  help      Show help for a command.\n")
	}
}
