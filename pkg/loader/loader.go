package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"

	"github.com/foliokit/folioctl/pkg/model"
)

// LoadSite parses a portfolio content directory into a strongly typed
// aggregate model.
func LoadSite(dirPath string) (*model.Site, error) {
	root, err := filepath.Abs(dirPath)
	if err != nil {
		return nil, fmt.Errorf("resolve site path: %w", err)
	}

	website, err := loadWebsite(root)
	if err != nil {
		return nil, err
	}

	sections, err := loadSections(root)
	if err != nil {
		return nil, err
	}

	caseStudies, err := loadCaseStudies(root)
	if err != nil {
		return nil, err
	}

	styles, err := loadStyles(root)
	if err != nil {
		return nil, err
	}

	assets, err := loadAssets(root)
	if err != nil {
		return nil, err
	}

	site := &model.Site{
		RootDir:     root,
		Website:     website,
		Sections:    sections,
		CaseStudies: caseStudies,
		Styles:      styles,
		Assets:      assets,
	}

	if err := ValidateSite(site); err != nil {
		return nil, err
	}

	return site, nil
}

func loadWebsite(root string) (model.Website, error) {
	var website model.Website

	path := filepath.Join(root, "website.yaml")
	if err := mustFile(path); err != nil {
		return website, err
	}

	if err := decodeYAMLFile(path, &website); err != nil {
		return website, err
	}

	return website, nil
}

func loadSections(root string) (map[string]model.Section, error) {
	pattern := filepath.Join(root, "sections", "*.section.yaml")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob section files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("missing section files in %s", filepath.Join(root, "sections"))
	}

	sort.Strings(files)

	sections := make(map[string]model.Section, len(files))
	for _, path := range files {
		var section model.Section
		if err := decodeYAMLFile(path, &section); err != nil {
			return nil, err
		}

		name := section.Metadata.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), ".section.yaml")
			section.Metadata.Name = name
		}
		if section.Spec.ID == "" {
			section.Spec.ID = name
		}

		htmlPath := filepath.Join(root, "sections", name+".html")
		content, err := os.ReadFile(htmlPath)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("section %q is missing its markup file %s", name, htmlPath)
			}
			return nil, fmt.Errorf("read section markup %s: %w", htmlPath, err)
		}
		section.Spec.HTML = normalizeLineEndings(string(content))

		sections[name] = section
	}

	return sections, nil
}

func loadCaseStudies(root string) (map[string]model.CaseStudy, error) {
	pattern := filepath.Join(root, "work", "*.case.yaml")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob case study files: %w", err)
	}

	sort.Strings(files)

	studies := make(map[string]model.CaseStudy, len(files))
	for _, path := range files {
		var study model.CaseStudy
		if err := decodeYAMLFile(path, &study); err != nil {
			return nil, err
		}

		name := study.Metadata.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), ".case.yaml")
			study.Metadata.Name = name
		}
		if study.Spec.Slug == "" {
			study.Spec.Slug = name
		}

		bodyPath := filepath.Join(root, "work", name+".md")
		body, err := os.ReadFile(bodyPath)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read case study body %s: %w", bodyPath, err)
			}
		} else {
			study.Spec.Body = normalizeLineEndings(string(body))
			rendered, err := renderMarkdown(study.Spec.Body)
			if err != nil {
				return nil, fmt.Errorf("render case study %q body: %w", name, err)
			}
			study.Spec.BodyHTML = rendered
		}

		studies[name] = study
	}

	return studies, nil
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

func renderMarkdown(body string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func loadStyles(root string) (model.StyleBundle, error) {
	stylesDir := filepath.Join(root, "styles")
	tokensPath := filepath.Join(stylesDir, "tokens.css")
	defaultPath := filepath.Join(stylesDir, "default.css")

	if err := mustFile(tokensPath); err != nil {
		return model.StyleBundle{}, err
	}
	if err := mustFile(defaultPath); err != nil {
		return model.StyleBundle{}, err
	}

	tokensCSS, err := os.ReadFile(tokensPath)
	if err != nil {
		return model.StyleBundle{}, fmt.Errorf("read style file %s: %w", tokensPath, err)
	}
	defaultCSS, err := os.ReadFile(defaultPath)
	if err != nil {
		return model.StyleBundle{}, fmt.Errorf("read style file %s: %w", defaultPath, err)
	}

	return model.StyleBundle{
		Name:       "default",
		TokensCSS:  normalizeLineEndings(string(tokensCSS)),
		DefaultCSS: normalizeLineEndings(string(defaultCSS)),
	}, nil
}

func loadAssets(root string) ([]model.Asset, error) {
	assetsDir := filepath.Join(root, "assets")
	if _, err := os.Stat(assetsDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.Asset{}, nil
		}
		return nil, fmt.Errorf("check assets directory %s: %w", assetsDir, err)
	}

	assets := []model.Asset{}
	err := filepath.WalkDir(assetsDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(assetsDir, path)
		if err != nil {
			return err
		}

		assets = append(assets, model.Asset{
			Name: filepath.Base(path),
			Path: filepath.ToSlash(relPath),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk assets directory %s: %w", assetsDir, err)
	}

	sort.Slice(assets, func(i, j int) bool {
		return assets[i].Path < assets[j].Path
	})

	return assets, nil
}

func decodeYAMLFile(path string, out any) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read yaml file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(content, out); err != nil {
		return fmt.Errorf("parse yaml file %s: %w", path, err)
	}

	return nil
}

func mustFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("required file missing: %s", path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("required file is a directory: %s", path)
	}
	return nil
}

func normalizeLineEndings(content string) string {
	return strings.ReplaceAll(content, "\r\n", "\n")
}
