package features

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/smallbiznis/pixomat/internal/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileReq(name, content string) dispatch.Request {
	return dispatch.Request{File: &dispatch.Upload{Name: name, Data: []byte(content)}}
}

func TestXMLToJSONCollapsesRepeatedTags(t *testing.T) {
	req := fileReq("people.xml", `<people>
		<person><name>Ann</name><age>30</age></person>
		<person><name>Bob</name><age></age></person>
	</people>`)

	result, err := xmlToJSON(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "converted.json", result.Artifact.Name)

	var payload map[string]map[string]any
	require.NoError(t, json.Unmarshal(result.Artifact.Data, &payload))

	persons, ok := payload["people"]["person"].([]any)
	require.True(t, ok, "repeated tags become an array")
	require.Len(t, persons, 2)

	first := persons[0].(map[string]any)
	assert.Equal(t, "Ann", first["name"])
	assert.Equal(t, "30", first["age"])

	second := persons[1].(map[string]any)
	assert.Nil(t, second["age"], "empty leaves become null")
}

func TestXMLToJSONRejectsGarbage(t *testing.T) {
	_, err := xmlToJSON(context.Background(), fileReq("bad.xml", "<open>"))
	assert.ErrorIs(t, err, dispatch.ErrInvalidInput)
}

func TestJSONToXMLSortsKeysAndWrapsLists(t *testing.T) {
	req := fileReq("data.json", `{"b": [1, 2], "a": "x & y"}`)
	result, err := jsonToXML(context.Background(), req)
	require.NoError(t, err)

	xml := string(result.Artifact.Data)
	assert.Equal(t, "<root><a>x &amp; y</a><b><item>1</item><item>2</item></b></root>", xml)
}

func TestXMLToCSVUnionsHeaders(t *testing.T) {
	req := fileReq("records.xml", `<rows>
		<row><name>Ann</name><age>30</age></row>
		<row><name>Bob</name><city>Kyiv</city></row>
	</rows>`)

	result, err := xmlToCSV(context.Background(), req)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(result.Artifact.Data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,age,city", lines[0], "columns appear in first-seen order")
	assert.Equal(t, "Ann,30,", lines[1])
	assert.Equal(t, "Bob,,Kyiv", lines[2])
}

func TestJSONToCSVFlattensNestedObjects(t *testing.T) {
	req := fileReq("data.json", `{"user": {"name": "Ann", "tags": ["a", "b"]}, "id": 7}`)
	result, err := jsonToCSV(context.Background(), req)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(result.Artifact.Data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,user_name,user_tags_0,user_tags_1", lines[0])
	assert.Equal(t, "7,Ann,a,b", lines[1])
}

func TestJSONToCSVListOfObjects(t *testing.T) {
	req := fileReq("data.json", `[{"a": 1, "b": 2}, {"a": 3, "b": 4}]`)
	result, err := jsonToCSV(context.Background(), req)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(result.Artifact.Data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "a,b", lines[0])
}

func TestJSONToCSVRejectsScalars(t *testing.T) {
	_, err := jsonToCSV(context.Background(), fileReq("data.json", `"just a string"`))
	assert.ErrorIs(t, err, dispatch.ErrInvalidInput)

	_, err = jsonToCSV(context.Background(), fileReq("data.json", `[1, 2, 3]`))
	assert.ErrorIs(t, err, dispatch.ErrInvalidInput)
}
