package diff

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Compute diffs the candidate tree (local build) against the served tree
// (active release). Local is "new", served is "old".
func Compute(local, served []FileRecord) (Result, error) {
	localByPath, err := indexRecords(local)
	if err != nil {
		return Result{}, fmt.Errorf("index local files: %w", err)
	}
	servedByPath, err := indexRecords(served)
	if err != nil {
		return Result{}, fmt.Errorf("index served files: %w", err)
	}

	paths := make([]string, 0, len(localByPath)+len(servedByPath))
	seen := make(map[string]struct{}, len(localByPath)+len(servedByPath))
	for p := range localByPath {
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	for p := range servedByPath {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := Result{Changes: make([]FileChange, 0, len(paths))}
	for _, p := range paths {
		newHash, hasLocal := localByPath[p]
		oldHash, hasServed := servedByPath[p]

		switch {
		case hasLocal && !hasServed:
			out.Summary.Added++
			out.Changes = append(out.Changes, FileChange{
				Path:       p,
				Group:      groupForPath(p),
				ChangeType: ChangeAdded,
				NewHash:    newHash,
			})
		case !hasLocal && hasServed:
			out.Summary.Removed++
			out.Changes = append(out.Changes, FileChange{
				Path:       p,
				Group:      groupForPath(p),
				ChangeType: ChangeRemoved,
				OldHash:    oldHash,
			})
		case hasLocal && hasServed && newHash != oldHash:
			out.Summary.Modified++
			out.Changes = append(out.Changes, FileChange{
				Path:       p,
				Group:      groupForPath(p),
				ChangeType: ChangeModified,
				OldHash:    oldHash,
				NewHash:    newHash,
			})
		default:
			out.Summary.Unchanged++
		}
	}

	sort.Slice(out.Changes, func(i, j int) bool {
		a, b := out.Changes[i], out.Changes[j]
		if groupOrder(a.Group) != groupOrder(b.Group) {
			return groupOrder(a.Group) < groupOrder(b.Group)
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return changeOrder(a.ChangeType) < changeOrder(b.ChangeType)
	})

	return out, nil
}

func indexRecords(records []FileRecord) (map[string]string, error) {
	out := make(map[string]string, len(records))
	for _, rec := range records {
		p := normalizePath(rec.Path)
		if p == "" {
			return nil, fmt.Errorf("path is empty")
		}
		h := normalizeHash(rec.Hash)
		if h == "" {
			return nil, fmt.Errorf("hash for %q is empty", p)
		}
		if existing, ok := out[p]; ok {
			if existing != h {
				return nil, fmt.Errorf("path %q has conflicting hashes (%s vs %s)", p, existing, h)
			}
			continue
		}
		out[p] = h
	}
	return out, nil
}

func normalizePath(raw string) string {
	p := strings.TrimSpace(strings.ReplaceAll(raw, "\\", "/"))
	if p == "" {
		return ""
	}
	clean := path.Clean(p)
	if clean == "." {
		return ""
	}
	return clean
}

func normalizeHash(raw string) string {
	h := strings.TrimSpace(strings.ToLower(raw))
	if h == "" {
		return ""
	}
	if strings.HasPrefix(h, "sha256:") {
		return h
	}
	return "sha256:" + h
}

// groupForPath buckets release files the way the rendered tree lays them
// out: page documents, then the hashed static dirs, then SEO metadata.
func groupForPath(filePath string) string {
	p := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(filePath, "\\", "/")))
	switch {
	case strings.HasPrefix(p, "styles/"):
		return "styles"
	case strings.HasPrefix(p, "scripts/"):
		return "scripts"
	case strings.HasPrefix(p, "assets/"), strings.HasPrefix(p, "og/"):
		return "assets"
	case strings.HasSuffix(p, ".html"):
		return "pages"
	default:
		return "meta"
	}
}

func groupOrder(group string) int {
	switch strings.ToLower(strings.TrimSpace(group)) {
	case "pages":
		return 0
	case "styles":
		return 1
	case "scripts":
		return 2
	case "assets":
		return 3
	case "meta":
		return 4
	default:
		return 5
	}
}

func changeOrder(changeType ChangeType) int {
	switch changeType {
	case ChangeAdded:
		return 0
	case ChangeModified:
		return 1
	case ChangeRemoved:
		return 2
	default:
		return 3
	}
}
