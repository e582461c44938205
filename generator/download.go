package generator

import (
	"mime"
	"path"
	"regexp"
	"strings"
)

// filenamePattern is the lenient fallback for headers mime cannot parse,
// such as unquoted names containing spaces.
var filenamePattern = regexp.MustCompile(`filename[^;=\n]*=(?:"([^"\n]*)"|'([^'\n]*)'|([^;\n]*))`)

// AttachmentFilename extracts the filename from a Content-Disposition
// header, or returns fallback.
func AttachmentFilename(contentDisposition, fallback string) string {
	if contentDisposition == "" {
		return fallback
	}

	if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
		if name := cleanFilename(params["filename"]); name != "" {
			return name
		}
	}

	if m := filenamePattern.FindStringSubmatch(contentDisposition); m != nil {
		for _, g := range m[1:] {
			if name := cleanFilename(g); name != "" {
				return name
			}
		}
	}
	return fallback
}

func cleanFilename(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	if len(name) >= 2 && name[0] == '\'' && name[len(name)-1] == '\'' {
		name = name[1 : len(name)-1]
	}
	if name == "" {
		return ""
	}
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
