package trace

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const htmlTemplate = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>rumm trace</title></head>
<body>
<pre id="trace-data" style="display:none">%s</pre>
<script>
  const data = JSON.parse(document.getElementById("trace-data").textContent);
  document.write("<pre>" + JSON.stringify(data, null, 2) + "</pre>");
</script>
</body></html>
`

// ExportHTML writes an HTML file embedding the frame's exported
// {name, children} tree as JSON.
func ExportHTML(f *Frame, w io.Writer) error {
	node := f.ToExportNode()
	data, err := json.Marshal(node)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, htmlTemplate, data)
	return err
}

// ExportYAML writes the same {name, children} tree as YAML, the
// sibling export format to ExportHTML.
func ExportYAML(f *Frame, w io.Writer) error {
	node := f.ToExportNode()
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(node)
}
