package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codingin/create-starterpack/internal/config"
	"github.com/codingin/create-starterpack/internal/install"
	"github.com/codingin/create-starterpack/internal/model"
	"github.com/codingin/create-starterpack/internal/output"
	"github.com/codingin/create-starterpack/internal/pkgjson"
)

// Local endpoints of the generated project's dev servers.
const (
	FrontendURL = "http://localhost:5173"
	BackendURL  = "http://localhost:3000"
	APIURL      = "http://localhost:3000/api"
)

// renderProject writes the result of a run in the configured format.
func renderProject(w io.Writer, cfg *config.Config, project *model.Project, scripts []pkgjson.Script) error {
	switch cfg.Output {
	// The machine formats print the Project record and nothing else, so
	// stdout can be piped straight into jq or yq.
	case "json":
		data, err := json.MarshalIndent(project, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(project)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML output: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		renderText(w, cfg.PackageManager, project, scripts)
		return nil
	}
}

// renderText prints the success message and the next steps.
func renderText(w io.Writer, pm string, project *model.Project, scripts []pkgjson.Script) {
	// commands and descriptions are parallel slices; an empty
	// description prints the command alone.
	commands := []string{"cd " + shellQuote(project.Name)}
	descriptions := []string{""}

	// Dependencies are missing when the install was skipped or failed,
	// so the manual install comes before any script.
	if project.Install != model.InstallSucceeded {
		commands = append(commands, install.ManualCommand(pm))
		descriptions = append(descriptions, "")
	}
	for _, s := range scripts {
		commands = append(commands, fmt.Sprintf("%s run %s", pm, s.Name))
		descriptions = append(descriptions, s.Description)
	}

	// Pad described commands to a common width so the descriptions line
	// up in one column.
	width := 0
	for i, c := range commands {
		if descriptions[i] != "" && len(c) > width {
			width = len(c)
		}
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, output.FormatSuccess("Project created successfully!"))
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "  "+output.StyleTitle.Render("Next steps:"))
	_, _ = fmt.Fprintln(w)
	for i, c := range commands {
		if descriptions[i] == "" {
			_, _ = fmt.Fprintln(w, "  "+output.FormatCommand(c, 0, ""))
			continue
		}
		_, _ = fmt.Fprintln(w, "  "+output.FormatCommand(c, width, descriptions[i]))
	}
	_, _ = fmt.Fprintln(w)
	// The dev servers listen on fixed ports defined in the template's
	// vite and nest configs.
	_, _ = fmt.Fprintln(w, "  "+output.FormatURL("Frontend", FrontendURL))
	_, _ = fmt.Fprintln(w, "  "+output.FormatURL("Backend", BackendURL))
	_, _ = fmt.Fprintln(w, "  "+output.FormatURL("API", APIURL))
	_, _ = fmt.Fprintln(w)
}

// shellQuote wraps s in double quotes when it would otherwise split into
// several shell words.
func shellQuote(s string) string {
	if !strings.ContainsAny(s, " \t'\"$`\\") {
		return s
	}
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`").Replace(s) + `"`
}
