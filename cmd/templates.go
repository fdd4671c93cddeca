package cmd

import (
	"context"
	"fmt"

	"github.com/olimci/create-creatif/pkg/scaffold"
	"github.com/olimci/create-creatif/pkg/utils/lazy"
	"github.com/olimci/create-creatif/templates"
	"github.com/urfave/cli/v3"
)

var scaffolder = lazy.Load(func() (*scaffold.Scaffolder, error) {
	return scaffold.NewScaffolderWithEmbedded(templates.FS, templates.Root)
})

func runTemplates(ctx context.Context, cmd *cli.Command) error {
	s, err := scaffolder.Get()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	showFiles := cmd.Bool("files")

	fmt.Println("Embedded template sets:")
	fmt.Println()

	for _, info := range s.ListTemplates() {
		fmt.Printf("  %-10s %-8s %s\n", info.Name, info.Version, info.Description)
		if !showFiles {
			continue
		}

		t, ok := s.Registry().Get(info.Name)
		if !ok {
			continue
		}
		files, err := t.Files()
		if err != nil {
			return cli.Exit(fmt.Sprintf("listing %s: %v", info.Name, err), 1)
		}
		for _, f := range files {
			marker := " "
			if t.ShouldProcessAsTemplate(f) {
				marker = "*"
			}
			fmt.Printf("      %s %s\n", marker, t.DestinationPath(f))
		}
		fmt.Println()
	}

	if showFiles {
		fmt.Println("  * rendered with the project variables")
	}

	return nil
}
