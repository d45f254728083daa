package catalog

import (
	"fmt"
	"os"
)

// DefaultCatalogYAML is the starter catalog written by
// `docsort categories init`. The category set and keyword lists follow
// the CTD (Common Technical Document) dossier structure used for
// regulatory submissions; adjust freely for other document corpora.
const DefaultCatalogYAML = `# docsort category catalog
#
# Each category carries an ordered list of weighted rules. Rule weights
# of all matching rules are summed per category and capped at 1.0.
#   kind:    keyword | regex        (both case-insensitive)
#   field:   text | filename | metadata
#   weight:  positive contribution to the category score
#
# An optional "centroid" per category points to a JSON array of floats
# (a precomputed embedding centroid) and enables the semantic fallback
# stage. Either all categories have centroids or none.

categories:
  - name: "Cover Letter"
    rules:
      - { kind: keyword, field: text, pattern: "cover letter", weight: 0.5 }
      - { kind: keyword, field: text, pattern: "submission letter", weight: 0.4 }
      - { kind: regex, field: filename, pattern: "cover[_ -]?letter", weight: 0.5 }

  - name: "Application Form"
    rules:
      - { kind: keyword, field: text, pattern: "application form", weight: 0.5 }
      - { kind: keyword, field: text, pattern: "marketing application", weight: 0.4 }
      - { kind: regex, field: filename, pattern: "application|form", weight: 0.3 }

  - name: "Product Information"
    rules:
      - { kind: keyword, field: text, pattern: "summary of product characteristics", weight: 0.6 }
      - { kind: keyword, field: text, pattern: "patient information leaflet", weight: 0.6 }
      - { kind: keyword, field: text, pattern: "prescribing information", weight: 0.4 }
      - { kind: regex, field: filename, pattern: "smpc|pil|leaflet", weight: 0.5 }

  - name: "GMP Certificates"
    rules:
      - { kind: keyword, field: text, pattern: "good manufacturing practice", weight: 0.5 }
      - { kind: keyword, field: text, pattern: "manufacturing license", weight: 0.4 }
      - { kind: regex, field: text, pattern: "gmp (certificate|compliance|inspection)", weight: 0.5 }
      - { kind: keyword, field: filename, pattern: "gmp", weight: 0.4 }

  - name: "Quality Overall Summary"
    rules:
      - { kind: keyword, field: text, pattern: "quality overall summary", weight: 0.6 }
      - { kind: regex, field: text, pattern: 'module\s+2\.3', weight: 0.5 }
      - { kind: keyword, field: filename, pattern: "qos", weight: 0.4 }

  - name: "Stability"
    rules:
      - { kind: keyword, field: text, pattern: "stability study", weight: 0.5 }
      - { kind: keyword, field: text, pattern: "shelf life", weight: 0.4 }
      - { kind: keyword, field: text, pattern: "storage condition", weight: 0.3 }
      - { kind: keyword, field: filename, pattern: "stability", weight: 0.4 }

  - name: "Toxicology"
    rules:
      - { kind: keyword, field: text, pattern: "toxicology", weight: 0.5 }
      - { kind: regex, field: text, pattern: "(single|repeat) dose toxicity", weight: 0.5 }
      - { kind: keyword, field: text, pattern: "genotoxicity", weight: 0.4 }
      - { kind: regex, field: filename, pattern: "tox", weight: 0.3 }

  - name: "Clinical Study Reports"
    rules:
      - { kind: keyword, field: text, pattern: "clinical study report", weight: 0.6 }
      - { kind: keyword, field: text, pattern: "clinical trial", weight: 0.4 }
      - { kind: regex, field: text, pattern: "bioequivalence|bioavailability", weight: 0.4 }
      - { kind: regex, field: filename, pattern: "csr|clinical|study", weight: 0.3 }
`

// WriteDefault writes the starter catalog to path, refusing to overwrite
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("catalog file already exists: %s", path)
	}
	return os.WriteFile(path, []byte(DefaultCatalogYAML), 0644)
}
