package renderer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/foliokit/folioctl/pkg/model"
)

type renderedStatics struct {
	TokensHref  string
	DefaultHref string
	ScriptSrc   string
	AssetMap    map[string]string
}

// renderStatics writes styles, the router script, and copied assets under
// content-addressed names and returns the hrefs the shell should reference.
// Hrefs are base-relative; the shell prefixes the site base path.
func renderStatics(site *model.Site, outputDir string) (renderedStatics, error) {
	statics := renderedStatics{AssetMap: map[string]string{}}

	tokensRel, err := writeContentAddressed(outputDir, "styles", "tokens.css", []byte(normalizeLF(site.Styles.TokensCSS)))
	if err != nil {
		return statics, err
	}
	defaultRel, err := writeContentAddressed(outputDir, "styles", "default.css", []byte(normalizeLF(site.Styles.DefaultCSS)))
	if err != nil {
		return statics, err
	}
	statics.TokensHref = "/" + tokensRel
	statics.DefaultHref = "/" + defaultRel

	scriptRel, err := writeContentAddressed(outputDir, "scripts", "router.js", []byte(routerScript))
	if err != nil {
		return statics, err
	}
	statics.ScriptSrc = "/" + scriptRel

	assets := append([]model.Asset(nil), site.Assets...)
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].Path < assets[j].Path
	})

	for _, asset := range assets {
		src := filepath.Join(site.RootDir, "assets", filepath.FromSlash(asset.Path))
		content, err := os.ReadFile(src)
		if err != nil {
			return statics, fmt.Errorf("read asset file %s: %w", src, err)
		}

		dir := filepath.Dir(asset.Path)
		if dir == "." {
			dir = ""
		}
		relDir := filepath.ToSlash(filepath.Join("assets", filepath.FromSlash(dir)))
		assetRel, err := writeContentAddressed(outputDir, relDir, filepath.Base(asset.Path), content)
		if err != nil {
			return statics, err
		}

		originalKey := filepath.ToSlash(filepath.Join("assets", asset.Path))
		statics.AssetMap[originalKey] = "/" + assetRel
	}

	return statics, nil
}

func writeContentAddressed(outputDir, relDir, canonicalName string, content []byte) (string, error) {
	targetName := hashedFilename(canonicalName, content)
	relPath := filepath.ToSlash(filepath.Join(filepath.FromSlash(relDir), targetName))
	path := filepath.Join(outputDir, filepath.FromSlash(relPath))
	if err := writeFileAtomic(path, content); err != nil {
		return "", fmt.Errorf("write file %s: %w", path, err)
	}
	return relPath, nil
}
