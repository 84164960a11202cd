package features

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/smallbiznis/pixomat/internal/dispatch"
)

// xmlNode is a generic parsed XML element tree.
type xmlNode struct {
	Tag      string
	Text     string
	Children []*xmlNode
}

func parseXML(data []byte) (*xmlNode, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	var root *xmlNode
	var stack []*xmlNode
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", dispatch.ErrInvalidInput, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &xmlNode{Tag: t.Name.Local}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: multiple root elements", dispatch.ErrInvalidInput)
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: empty document", dispatch.ErrInvalidInput)
	}
	return root, nil
}

// nodeToValue mirrors the element tree as JSON values: leaves become
// trimmed text or null, children become an object, and repeated tags
// collapse into arrays.
func nodeToValue(node *xmlNode) any {
	if len(node.Children) == 0 {
		text := strings.TrimSpace(node.Text)
		if text == "" {
			return nil
		}
		return text
	}
	result := map[string]any{}
	for _, child := range node.Children {
		value := nodeToValue(child)
		if existing, ok := result[child.Tag]; ok {
			if list, isList := existing.([]any); isList {
				result[child.Tag] = append(list, value)
			} else {
				result[child.Tag] = []any{existing, value}
			}
		} else {
			result[child.Tag] = value
		}
	}
	return result
}

func xmlToJSON(_ context.Context, req dispatch.Request) (*dispatch.Result, error) {
	if req.File == nil {
		return nil, fmt.Errorf("%w: no file provided", dispatch.ErrInvalidInput)
	}
	root, err := parseXML(req.File.Data)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{root.Tag: nodeToValue(root)}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	return &dispatch.Result{Artifact: &dispatch.Artifact{
		Name: "converted.json",
		MIME: "application/json",
		Data: data,
	}}, nil
}

func jsonToXML(_ context.Context, req dispatch.Request) (*dispatch.Result, error) {
	if req.File == nil {
		return nil, fmt.Errorf("%w: no file provided", dispatch.ErrInvalidInput)
	}
	var payload any
	if err := json.Unmarshal(req.File.Data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", dispatch.ErrInvalidInput, err)
	}

	var buf bytes.Buffer
	buf.WriteString("<root>")
	writeXMLValue(&buf, payload)
	buf.WriteString("</root>")

	return &dispatch.Result{Artifact: &dispatch.Artifact{
		Name: "converted.xml",
		MIME: "application/xml",
		Data: buf.Bytes(),
	}}, nil
}

// writeXMLValue renders objects as child tags, arrays as repeated
// <item> elements, and scalars as escaped text.
func writeXMLValue(buf *bytes.Buffer, value any) {
	switch v := value.(type) {
	case map[string]any:
		for _, key := range sortedKeys(v) {
			buf.WriteString("<" + key + ">")
			writeXMLValue(buf, v[key])
			buf.WriteString("</" + key + ">")
		}
	case []any:
		for _, item := range v {
			buf.WriteString("<item>")
			writeXMLValue(buf, item)
			buf.WriteString("</item>")
		}
	case nil:
	default:
		xml.EscapeText(buf, []byte(fmt.Sprintf("%v", v)))
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// xmlToCSV treats each child of the root as one record and each of its
// children as a column.
func xmlToCSV(_ context.Context, req dispatch.Request) (*dispatch.Result, error) {
	if req.File == nil {
		return nil, fmt.Errorf("%w: no file provided", dispatch.ErrInvalidInput)
	}
	root, err := parseXML(req.File.Data)
	if err != nil {
		return nil, err
	}
	if len(root.Children) == 0 {
		return nil, fmt.Errorf("%w: no records found", dispatch.ErrInvalidInput)
	}

	var header []string
	seen := map[string]bool{}
	for _, record := range root.Children {
		for _, field := range record.Children {
			if !seen[field.Tag] {
				seen[field.Tag] = true
				header = append(header, field.Tag)
			}
		}
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for _, record := range root.Children {
		fields := map[string]string{}
		for _, field := range record.Children {
			fields[field.Tag] = strings.TrimSpace(field.Text)
		}
		row := make([]string, len(header))
		for i, col := range header {
			row[i] = fields[col]
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return &dispatch.Result{Artifact: &dispatch.Artifact{
		Name: "converted.csv",
		MIME: "text/csv",
		Data: buf.Bytes(),
	}}, nil
}

// flattenJSON collapses nested objects and arrays into a single level,
// path segments joined with underscores, list entries by index.
func flattenJSON(value any) map[string]any {
	out := map[string]any{}
	var walk func(v any, prefix string)
	walk = func(v any, prefix string) {
		switch val := v.(type) {
		case map[string]any:
			for k, item := range val {
				walk(item, prefix+k+"_")
			}
		case []any:
			for i, item := range val {
				walk(item, fmt.Sprintf("%s%d_", prefix, i))
			}
		default:
			out[strings.TrimSuffix(prefix, "_")] = val
		}
	}
	walk(value, "")
	return out
}

func jsonToCSV(_ context.Context, req dispatch.Request) (*dispatch.Result, error) {
	if req.File == nil {
		return nil, fmt.Errorf("%w: no file provided", dispatch.ErrInvalidInput)
	}
	var payload any
	if err := json.Unmarshal(req.File.Data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", dispatch.ErrInvalidInput, err)
	}

	var records []map[string]any
	switch v := payload.(type) {
	case map[string]any:
		records = []map[string]any{flattenJSON(v)}
	case []any:
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: expected a list of objects", dispatch.ErrInvalidInput)
			}
			records = append(records, flattenJSON(obj))
		}
	default:
		return nil, fmt.Errorf("%w: expected an object or list of objects", dispatch.ErrInvalidInput)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no data to write", dispatch.ErrInvalidInput)
	}

	header := sortedKeys(records[0])
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for _, record := range records {
		row := make([]string, len(header))
		for i, col := range header {
			if v, ok := record[col]; ok && v != nil {
				row[i] = fmt.Sprintf("%v", v)
			}
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return &dispatch.Result{Artifact: &dispatch.Artifact{
		Name: "converted.csv",
		MIME: "text/csv",
		Data: buf.Bytes(),
	}}, nil
}
