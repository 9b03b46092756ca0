package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dyluth/allot/internal/config"
	"github.com/dyluth/allot/internal/roster"
)

//go:embed templates/*
var templatesFS embed.FS

// FileInfo represents a file to be created during initialization
type FileInfo struct {
	Path        string
	Content     []byte
	Permissions os.FileMode
}

// templates maps each created file to its embedded template
var templates = []struct {
	path     string
	template string
}{
	{path: config.DefaultPath, template: "templates/allot.yml.tmpl"},
	{path: config.DefaultStudentsPath, template: "templates/students.csv.tmpl"},
	{path: config.DefaultProjectsPath, template: "templates/projects.csv.tmpl"},
}

// Initialize writes a starter allot.yml and example inputs into dir.
// If force is true, existing files are replaced.
func Initialize(dir string, force bool) error {
	// Handle --force flag
	if force {
		if err := handleForce(dir); err != nil {
			return err
		}
	}

	// Get template files
	files, err := getTemplateFiles(dir)
	if err != nil {
		return err
	}

	// Write files
	if err := writeFiles(files); err != nil {
		return err
	}

	// Validate created files
	if err := validateCreatedFiles(dir); err != nil {
		return err
	}

	return nil
}

// handleForce removes existing files if --force was specified
func handleForce(dir string) error {
	for _, t := range templates {
		path := filepath.Join(dir, t.path)
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("⚠️  Removing existing %s...\n", t.path)
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to remove %s: %w", t.path, err)
			}
		}
	}

	return nil
}

// getTemplateFiles reads all template files
func getTemplateFiles(dir string) ([]FileInfo, error) {
	files := make([]FileInfo, 0, len(templates))

	for _, t := range templates {
		content, err := templatesFS.ReadFile(t.template)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s template: %w", t.path, err)
		}
		files = append(files, FileInfo{
			Path:        filepath.Join(dir, t.path),
			Content:     content,
			Permissions: 0644,
		})
	}

	return files, nil
}

// writeFiles writes all template files to disk
func writeFiles(files []FileInfo) error {
	for _, file := range files {
		if err := os.WriteFile(file.Path, file.Content, file.Permissions); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
	}

	return nil
}

// validateCreatedFiles checks that the config loads and the example inputs parse
func validateCreatedFiles(dir string) error {
	if _, err := config.Load(filepath.Join(dir, config.DefaultPath)); err != nil {
		return fmt.Errorf("created %s is not valid: %w", config.DefaultPath, err)
	}

	if _, err := roster.LoadStudents(filepath.Join(dir, config.DefaultStudentsPath)); err != nil {
		return fmt.Errorf("created %s is not valid: %w", config.DefaultStudentsPath, err)
	}

	if _, err := roster.LoadProjects(filepath.Join(dir, config.DefaultProjectsPath)); err != nil {
		return fmt.Errorf("created %s is not valid: %w", config.DefaultProjectsPath, err)
	}

	return nil
}

// PrintSuccess prints the success message with created files
func PrintSuccess() {
	fmt.Println("\n✅ Successfully initialized allot project!")
	fmt.Println("\nCreated:")
	for _, t := range templates {
		fmt.Printf("  ✓ %s\n", t.path)
	}
	fmt.Println("\nNext steps:")
	fmt.Printf("  1. Replace %s with your roster (name,group per line)\n", config.DefaultStudentsPath)
	fmt.Printf("  2. Replace %s with one project per group (project,group,case study)\n", config.DefaultProjectsPath)
	fmt.Println("  3. Run 'allot assign' to draw assignments")
}
