// Package hints turns common operator mistakes into one-line suggestions.
// Every hint renders as "\n  hint: <text>" so it can trail an error message.
package hints

import (
	"strings"

	"github.com/NandanaMD/labourlekka-web/internal/fileutil"
)

// Getenv reads an environment variable. Callers pass os.Getenv.
type Getenv func(string) string

// dockerenv is the marker file Docker creates in every container.
var dockerenv = "/.dockerenv"

// ciVars are set by the CI systems we know about.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// Container names the signal that shows the process runs in a container,
// or returns "" when there is none.
func Container(getenv Getenv) string {
	switch {
	case getenv("LEKKA_CONTAINER") == "1":
		return "container (LEKKA_CONTAINER=1)"
	case getenv("container") != "":
		return "container (container=" + getenv("container") + ")"
	case getenv("KUBERNETES_SERVICE_HOST") != "":
		return "Kubernetes"
	case fileutil.FileExists(dockerenv):
		return "Docker"
	}
	return ""
}

// CI returns the first CI variable that is set, or "".
func CI(getenv Getenv) string {
	for _, v := range ciVars {
		if getenv(v) != "" {
			return v
		}
	}
	return ""
}

// ForBrowserConnect suggests the Chrome launch settings that are still unset.
func ForBrowserConnect(getenv Getenv) string {
	var tips []string
	if getenv("ROD_NO_SANDBOX") != "1" && (Container(getenv) != "" || CI(getenv) != "") {
		tips = append(tips, "set ROD_NO_SANDBOX=1 when running in a container or CI")
	}
	if getenv("ROD_BROWSER_BIN") == "" {
		tips = append(tips, "point ROD_BROWSER_BIN at a Chrome binary")
	}
	return line(tips...)
}

// ForTimeout applies when a capture outlives its deadline.
func ForTimeout() string {
	return line("raise --timeout (or export.timeout) for long policies")
}

// ForConfigNotFound applies when no config file could be located.
func ForConfigNotFound() string {
	return line("pass --config with a YAML file path, or set LEKKA_CONFIG")
}

// ForOutputDirectory applies when a PDF or page cannot be written.
func ForOutputDirectory() string {
	return line("make sure the output's parent directory exists and is writable")
}

// ForPolicySource applies when the policy document cannot be fetched.
func ForPolicySource(source string) string {
	if fileutil.IsURL(source) {
		return line("check that " + source + " is reachable, or use --policy with a local file")
	}
	return line("place PRIVACY_POLICY.md in the static directory or pass --policy")
}

// ForListenAddress applies when the server cannot bind.
func ForListenAddress(addr string) string {
	return line(addr + " may already be in use; set --addr or LEKKA_ADDR")
}

// line joins tips into a single hint, or returns "" when there are none.
func line(tips ...string) string {
	if len(tips) == 0 {
		return ""
	}
	return "\n  hint: " + strings.Join(tips, "; ")
}
