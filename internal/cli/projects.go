// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/Andriykkk/ai-cli/internal/api"
)

// =============================================================================
// PROJECT PICKER
// =============================================================================

// PickProject resolves the project to chat in. When preferredID is
// non-zero and exists, it is used without prompting; otherwise the user
// picks from the server's list or creates a new project.
func PickProject(client *api.Client, preferredID int) (api.Project, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	projects, err := client.ListProjects(ctx)
	if err != nil {
		return api.Project{}, fmt.Errorf("failed to list projects: %w", err)
	}

	if preferredID != 0 {
		for _, p := range projects {
			if p.ID == preferredID {
				return p, nil
			}
		}
		return api.Project{}, fmt.Errorf("project %d not found", preferredID)
	}

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	if len(projects) == 0 {
		fmt.Println("No projects on the server yet.")
		return createProject(ctx, client, line)
	}

	fmt.Println("Projects:")
	for i, p := range projects {
		fmt.Printf("  %d. %s (%s)\n", i+1, p.Name, p.Path)
	}
	fmt.Println("  n. create a new project")

	for {
		answer, err := line.Prompt("Select: ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			return api.Project{}, fmt.Errorf("no project selected")
		}
		if err != nil {
			return api.Project{}, err
		}

		answer = strings.TrimSpace(answer)
		if strings.EqualFold(answer, "n") {
			return createProject(ctx, client, line)
		}
		if idx, convErr := strconv.Atoi(answer); convErr == nil && idx >= 1 && idx <= len(projects) {
			return useProject(ctx, client, projects[idx-1])
		}
	}
}

func createProject(ctx context.Context, client *api.Client, line *liner.State) (api.Project, error) {
	name, err := line.Prompt("Project name: ")
	if err != nil {
		return api.Project{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return api.Project{}, fmt.Errorf("project name is required")
	}

	cwd, _ := os.Getwd()
	path, err := line.Prompt(fmt.Sprintf("Project path [%s]: ", cwd))
	if err != nil {
		return api.Project{}, err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		path = cwd
	}

	project, err := client.CreateProject(ctx, name, path, "")
	if err != nil {
		return api.Project{}, fmt.Errorf("failed to create project: %w", err)
	}
	return useProject(ctx, client, *project)
}

// useProject marks the project active on the server before returning it.
func useProject(ctx context.Context, client *api.Client, project api.Project) (api.Project, error) {
	if err := client.UseProject(ctx, project.ID); err != nil {
		return api.Project{}, fmt.Errorf("failed to activate project: %w", err)
	}
	return project, nil
}
