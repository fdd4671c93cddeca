package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/olimci/create-creatif/pkg/config"
	"github.com/olimci/create-creatif/pkg/project"
)

func printOutro(w io.Writer, styles uiStyles, cfg *config.Config, opts project.Options, res *project.Result) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s Created %s in %s\n",
		styles.success.Render("Done!"),
		styles.title.Render(res.ProjectName),
		res.WorkingDirectory,
	)
	fmt.Fprintln(w)

	fmt.Fprintln(w, styles.section.Render("Next steps:"))
	for _, step := range nextSteps(opts) {
		fmt.Fprintln(w, styles.command.Render(step))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "The frontend will be served at %s.\n",
		styles.link.Render(fmt.Sprintf("http://localhost:%d", cfg.Frontend.Port)))
	fmt.Fprintf(w, "The backend is ready once the api container logs %s\n",
		styles.muted.Render(fmt.Sprintf("⇨ http server started on [::]:%d", cfg.Server.Port)))
}

func nextSteps(opts project.Options) []string {
	var steps []string
	if opts.AppDirectory != "" {
		dir := opts.AppDirectory
		if strings.ContainsFunc(dir, unicode.IsSpace) {
			dir = strconv.Quote(dir)
		}
		steps = append(steps, "cd "+dir)
	}
	return append(steps, "docker compose up")
}
