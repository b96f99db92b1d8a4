package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lekka <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Serve the Labour Lekka site")
	fmt.Fprintln(w, "  export     Export the privacy policy to PDF")
	fmt.Fprintln(w, "  render     Render a site view as static HTML")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  doctor     Check that the site can serve and export")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'lekka help <command>' for details on a specific command.")
}

// printCommonUsage prints flags shared by every command that loads configuration.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (env: LEKKA_CONFIG)")
	fmt.Fprintln(w, "      --env-file <path>     Dotenv file (default .env, missing is fine)")
	fmt.Fprintln(w, "      --policy <src>        Policy URL or file (default: bundled PRIVACY_POLICY.md)")
	fmt.Fprintln(w, "      --asset-path <dir>    Asset directory overriding the bundled files")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed progress")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Precedence: flags > LEKKA_* environment > config file > defaults.")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lekka serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the home, team and privacy policy pages over HTTP.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default :8080)")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent PDF exports, one browser each (0 = auto)")
	fmt.Fprintln(w, "      --log-level <s>       Log level: debug, info, warn, error")
	fmt.Fprintln(w, "      --interval <d>        Carousel interval (default 4s)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lekka export [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Fetch the privacy policy, render it and write a paginated A4 PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default Labour-Lekka-Privacy-Policy.pdf)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Capture timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --stamp <s>           PDF subject: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, long, short")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lekka render [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render the view selected by a URL fragment as a standalone HTML page.")
	fmt.Fprintln(w, "#team selects the team page; anything else selects home.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render:")
	fmt.Fprintln(w, "  -f, --fragment <s>        URL fragment, e.g. #team")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: stdout)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lekka config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration serve and export would use, as YAML.")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lekka doctor [--json] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the browser, sandbox settings, assets and the configured policy source.")
	fmt.Fprintln(w, "Exits 1 when a check fails; warnings do not change the exit code.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Print the report as JSON")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "export":
		printExportUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: lekka version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: lekka help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
