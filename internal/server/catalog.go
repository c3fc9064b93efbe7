package server

import "net/http"

// ParamType is the declared type of a tool argument.
type ParamType string

const (
	TypeString ParamType = "string"
	TypeNumber ParamType = "number"
)

// Param describes one accepted tool argument.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
}

// ToolDefinition is one catalog entry exposed for discovery.
type ToolDefinition struct {
	Name        string
	Description string
	Params      []Param
}

// action is the CRUD verb a tool performs on its resource.
type action int

const (
	actionList action = iota
	actionGet
	actionCreate
	actionUpdate
	actionDelete
)

// resource is a CRM entity category and its endpoint contract.
type resource struct {
	plural       string // tool suffix for list, e.g. "people"
	singular     string // tool suffix for the rest, e.g. "person"
	display      string // "Person"
	path         string
	updateMethod string
	query        []Param // optional list filters
	fields       []Param // create/update body fields
}

// paged returns the pagination parameters followed by extra filters.
func paged(extra ...Param) []Param {
	return append([]Param{
		{Name: "page", Type: TypeNumber, Description: "Page number (starts at 1)"},
		{Name: "itemsPerPage", Type: TypeNumber, Description: "Number of items per page"},
	}, extra...)
}

var resources = []resource{
	{
		plural: "people", singular: "person", display: "Person",
		path: "/people", updateMethod: http.MethodPut,
		query: paged(Param{Name: "q", Type: TypeString, Description: "Search query"}),
		fields: []Param{
			{Name: "name", Type: TypeString, Description: "Full name"},
			{Name: "email", Type: TypeString, Description: "Email address"},
			{Name: "phone", Type: TypeString, Description: "Phone number"},
			{Name: "organizationId", Type: TypeString, Description: "ID of the person's organization"},
		},
	},
	{
		plural: "organizations", singular: "organization", display: "Organization",
		path: "/organizations", updateMethod: http.MethodPut,
		query: paged(Param{Name: "q", Type: TypeString, Description: "Search query"}),
		fields: []Param{
			{Name: "name", Type: TypeString, Description: "Organization name"},
			{Name: "website", Type: TypeString, Description: "Website URL"},
			{Name: "email", Type: TypeString, Description: "Email address"},
			{Name: "phone", Type: TypeString, Description: "Phone number"},
		},
	},
	{
		plural: "lists", singular: "list", display: "List",
		path: "/segments", updateMethod: http.MethodPatch,
		query: paged(),
		fields: []Param{
			{Name: "name", Type: TypeString, Description: "List name"},
			{Name: "description", Type: TypeString, Description: "List description"},
		},
	},
	{
		plural: "tags", singular: "tag", display: "Tag",
		path: "/tags", updateMethod: http.MethodPatch,
		query: paged(),
		fields: []Param{
			{Name: "name", Type: TypeString, Description: "Tag name"},
			{Name: "color", Type: TypeString, Description: "Tag color"},
		},
	},
	{
		plural: "tasks", singular: "task", display: "Task",
		path: "/tasks", updateMethod: http.MethodPatch,
		query: paged(Param{Name: "status", Type: TypeString, Description: "Filter by task status"}),
		fields: []Param{
			{Name: "title", Type: TypeString, Description: "Task title"},
			{Name: "description", Type: TypeString, Description: "Task description"},
			{Name: "status", Type: TypeString, Description: "Task status"},
			{Name: "dueDate", Type: TypeString, Description: "Due date (ISO 8601)"},
			{Name: "assigneeId", Type: TypeString, Description: "ID of the assigned user"},
		},
	},
}

func (r resource) toolName(a action) string {
	switch a {
	case actionList:
		return "get_" + r.plural
	case actionGet:
		return "get_" + r.singular
	case actionCreate:
		return "create_" + r.singular
	case actionUpdate:
		return "update_" + r.singular
	default:
		return "delete_" + r.singular
	}
}

// Catalog returns every tool the server exposes. It is pure data.
func Catalog() []ToolDefinition {
	out := make([]ToolDefinition, 0, len(resources)*5)
	for _, r := range resources {
		out = append(out,
			ToolDefinition{
				Name:        r.toolName(actionList),
				Description: "List " + r.plural + " with optional pagination",
				Params:      r.query,
			},
			ToolDefinition{
				Name:        r.toolName(actionGet),
				Description: "Get a " + r.singular + " by ID",
				Params:      []Param{idParam(r)},
			},
			ToolDefinition{
				Name:        r.toolName(actionCreate),
				Description: "Create a new " + r.singular,
				Params:      createParams(r.fields),
			},
			ToolDefinition{
				Name:        r.toolName(actionUpdate),
				Description: "Update an existing " + r.singular,
				Params:      append([]Param{idParam(r)}, r.fields...),
			},
			ToolDefinition{
				Name:        r.toolName(actionDelete),
				Description: "Delete a " + r.singular,
				Params:      []Param{idParam(r)},
			},
		)
	}
	return out
}

func idParam(r resource) Param {
	return Param{Name: "id", Type: TypeString, Description: r.display + " ID", Required: true}
}

// createParams marks the leading descriptive field required for host-side validation.
func createParams(fields []Param) []Param {
	out := make([]Param, len(fields))
	copy(out, fields)
	if len(out) > 0 {
		out[0].Required = true
	}
	return out
}

// InputSchema renders the definition as a JSON Schema object.
func (d ToolDefinition) InputSchema() map[string]interface{} {
	props := make(map[string]interface{}, len(d.Params))
	required := []string{}
	for _, p := range d.Params {
		props[p.Name] = map[string]interface{}{"type": string(p.Type), "description": p.Description}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// requiresID reports whether the definition declares a required id argument.
func (d ToolDefinition) requiresID() bool {
	for _, p := range d.Params {
		if p.Name == "id" && p.Required {
			return true
		}
	}
	return false
}
