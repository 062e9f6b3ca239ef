package ingest

import (
	"testing"

	"github.com/flowshift/quoter/common/models"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeMake_RouterScenario(t *testing.T) {
	doc := mustDoc(t, `{"flow":[
		{"id":"1","module":"http"},
		{"id":"2","module":"http","routes":[{"flow":[{"id":"3","module":"set"}]}]}
	]}`)

	wf := NormalizeMake(doc, "scenario.json", 20)

	assert.Equal(t, models.PlatformMake, wf.Platform)
	assert.Equal(t, 3, wf.TotalNodes)
	assert.Equal(t, 60, wf.TotalPrice)
	assert.Equal(t, "scenario.json", wf.WorkflowName)
	assert.Equal(t, "scenario.json", wf.FileName)
}

func TestNormalizeMake_DedupAcrossBranches(t *testing.T) {
	doc := mustDoc(t, `{"name":"Converging","flow":[
		{"id":1,"module":"router","routes":[
			{"flow":[{"id":2,"module":"a"},{"id":4,"module":"merge"}]},
			{"flow":[{"id":3,"module":"b"},{"id":4,"module":"merge"}]}
		]}
	]}`)

	wf := NormalizeMake(doc, "converge.json", 20)

	assert.Equal(t, 4, wf.TotalNodes, "node 4 is reachable twice but counts once")
	assert.Equal(t, 80, wf.TotalPrice)
	assert.Equal(t, "Converging", wf.WorkflowName)
}

func TestNormalizeMake_TraversalOrder(t *testing.T) {
	doc := mustDoc(t, `{"flow":[
		{"id":1,"name":"A","module":"m","routes":[{"flow":[{"id":2,"name":"B","module":"m"}]}],
		 "onerror":[{"id":3,"name":"C","module":"builtin:Ignore"}],
		 "iterate":{"flow":[{"id":4,"name":"D","module":"m"}]}},
		{"id":5,"name":"E","module":"m"}
	]}`)

	wf := NormalizeMake(doc, "order.json", 20)

	names := make([]string, 0, len(wf.Nodes))
	for _, n := range wf.Nodes {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, names)
}

func TestNormalizeMake_NameFallbacks(t *testing.T) {
	doc := mustDoc(t, `{"flow":[
		{"id":1,"name":"Explicit","module":"http:ActionSendData"},
		{"id":2,"module":"json:ParseJSON","metadata":{"designer":{"x":0,"y":0,"name":"From designer"}}},
		{"id":3,"module":"util:SetVariable"},
		{"id":4}
	]}`)

	wf := NormalizeMake(doc, "names.json", 20)

	assert.Equal(t, []models.Node{
		{Name: "Explicit", Type: "http:ActionSendData"},
		{Name: "From designer", Type: "json:ParseJSON"},
		{Name: "util:SetVariable", Type: "util:SetVariable"},
		{Name: "Unknown", Type: "unknown"},
	}, wf.Nodes)
}

func TestNormalizeMake_StepsWithoutID(t *testing.T) {
	doc := mustDoc(t, `{"flow":[
		{"module":"no-id","routes":[{"flow":[{"id":"x","module":"inner"}]}]},
		"not an object",
		{"id":"","module":"empty id"}
	]}`)

	wf := NormalizeMake(doc, "noid.json", 20)

	assert.Equal(t, 1, wf.TotalNodes, "only the nested step has an id")
	assert.Equal(t, "inner", wf.Nodes[0].Name)
}

func TestNormalizeMake_EmptyFlow(t *testing.T) {
	wf := NormalizeMake(mustDoc(t, `{"flow":[]}`), "empty.json", 20)

	assert.Equal(t, 0, wf.TotalNodes)
	assert.Equal(t, 0, wf.TotalPrice)
	assert.NotNil(t, wf.Nodes)
}
