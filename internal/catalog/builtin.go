package catalog

import "sync"

func pathParam(name, description string) Param {
	return Param{Name: name, Kind: KindString, Required: true, In: InPath, Description: description}
}

func numberPathParam(name, description string) Param {
	return Param{Name: name, Kind: KindNumber, Required: true, In: InPath, Description: description}
}

func queryParam(name string, kind Kind, description string) Param {
	return Param{Name: name, Kind: kind, In: InQuery, Description: description}
}

func bodyParam(name string, kind Kind, required bool, description string) Param {
	return Param{Name: name, Kind: kind, Required: required, In: InBody, Description: description}
}

func jsonBody(name, description string) Param {
	return Param{Name: name, Kind: KindJSONObject, Required: true, In: InBody, Description: description}
}

var (
	projectID  = pathParam("project_id", "Project identifier.")
	taskNumber = numberPathParam("task_number", "Task number, unique within its project.")
	skip       = queryParam("skip", KindNumber, "Number of records to skip.")
	limit      = queryParam("limit", KindNumber, "Maximum number of records to return.")
)

// builtinTools is the project-manager API surface. Paths must match the
// backend routes; the catalog only checks its own static invariants.
var builtinTools = []Tool{
	// Projects
	{
		ID:          "list_projects",
		Label:       "List projects",
		Method:      "GET",
		Path:        "/api/v1/projects",
		Description: "List projects, optionally filtered by status or archive state.",
		Params: []Param{
			skip,
			limit,
			queryParam("status", KindString, "Filter by project status."),
			queryParam("is_archived", KindBoolean, "Include only archived (true) or active (false) projects."),
		},
	},
	{
		ID:          "get_project",
		Label:       "Get project",
		Method:      "GET",
		Path:        "/api/v1/projects/{project_id}",
		Description: "Get one project by id.",
		Params:      []Param{projectID},
	},
	{
		ID:          "create_project",
		Label:       "Create project",
		Method:      "POST",
		Path:        "/api/v1/projects",
		Description: "Create a project.",
		Params: []Param{
			bodyParam("name", KindString, true, "Project name, unique across the workspace."),
			bodyParam("description", KindString, false, "Free-form description."),
			bodyParam("template_id", KindString, false, "Project template to copy tasks from."),
		},
	},
	{
		ID:          "update_project",
		Label:       "Update project",
		Method:      "PUT",
		Path:        "/api/v1/projects/{project_id}",
		Description: "Update project fields. The body is a JSON object of the fields to change.",
		Params: []Param{
			projectID,
			jsonBody("project_data", "JSON object of project fields to update."),
		},
	},
	{
		ID:          "archive_project",
		Label:       "Archive project",
		Method:      "POST",
		Path:        "/api/v1/projects/{project_id}/archive",
		Description: "Archive a project and hide it from default listings.",
		Params:      []Param{projectID},
	},
	{
		ID:          "unarchive_project",
		Label:       "Unarchive project",
		Method:      "POST",
		Path:        "/api/v1/projects/{project_id}/unarchive",
		Description: "Restore an archived project.",
		Params:      []Param{projectID},
	},
	{
		ID:          "delete_project",
		Label:       "Delete project",
		Method:      "DELETE",
		Path:        "/api/v1/projects/{project_id}",
		Description: "Delete a project and all of its tasks.",
		Params:      []Param{projectID},
	},

	// Tasks
	{
		ID:          "list_tasks",
		Label:       "List tasks",
		Method:      "GET",
		Path:        "/api/v1/projects/{project_id}/tasks",
		Description: "List tasks in a project.",
		Params: []Param{
			projectID,
			skip,
			limit,
			queryParam("agent_id", KindString, "Only tasks assigned to this agent."),
			queryParam("status", KindString, "Filter by task status."),
			queryParam("search", KindString, "Text to match in title or description."),
			queryParam("sort_by", KindString, "Field to sort by."),
			queryParam("sort_direction", KindString, "asc or desc."),
			queryParam("is_archived", KindBoolean, "Filter on archive state."),
		},
	},
	{
		ID:          "get_task",
		Label:       "Get task",
		Method:      "GET",
		Path:        "/api/v1/projects/{project_id}/tasks/{task_number}",
		Description: "Get one task by project and task number.",
		Params:      []Param{projectID, taskNumber},
	},
	{
		ID:          "create_task",
		Label:       "Create task",
		Method:      "POST",
		Path:        "/api/v1/projects/{project_id}/tasks",
		Description: "Create a task in a project.",
		Params: []Param{
			projectID,
			bodyParam("title", KindString, true, "Task title."),
			bodyParam("description", KindString, false, "Task description."),
			bodyParam("status", KindString, false, "Initial status (default To Do)."),
			bodyParam("agent_id", KindString, false, "Agent to assign."),
		},
	},
	{
		ID:          "update_task",
		Label:       "Update task",
		Method:      "PUT",
		Path:        "/api/v1/projects/{project_id}/tasks/{task_number}",
		Description: "Update task fields. The body is a JSON object of the fields to change.",
		Params: []Param{
			projectID,
			taskNumber,
			jsonBody("task_data", "JSON object of task fields to update."),
		},
	},
	{
		ID:          "archive_task",
		Label:       "Archive task",
		Method:      "POST",
		Path:        "/api/v1/projects/{project_id}/tasks/{task_number}/archive",
		Description: "Archive a task.",
		Params:      []Param{projectID, taskNumber},
	},
	{
		ID:          "delete_task",
		Label:       "Delete task",
		Method:      "DELETE",
		Path:        "/api/v1/projects/{project_id}/tasks/{task_number}",
		Description: "Delete a task.",
		Params:      []Param{projectID, taskNumber},
	},
	{
		ID:          "add_task_dependency",
		Label:       "Add task dependency",
		Method:      "POST",
		Path:        "/api/v1/projects/{project_id}/tasks/{task_number}/dependencies",
		Description: "Make a task depend on another task.",
		Params: []Param{
			projectID,
			taskNumber,
			bodyParam("predecessor_project_id", KindString, true, "Project of the task that must finish first."),
			bodyParam("predecessor_task_number", KindNumber, true, "Number of the task that must finish first."),
			bodyParam("type", KindString, false, "Dependency type (default finish_to_start)."),
		},
	},

	// Comments
	{
		ID:          "list_task_comments",
		Label:       "List task comments",
		Method:      "GET",
		Path:        "/api/v1/projects/{project_id}/tasks/{task_number}/comments",
		Description: "List comments on a task.",
		Params:      []Param{projectID, taskNumber, skip, limit},
	},
	{
		ID:          "add_task_comment",
		Label:       "Add task comment",
		Method:      "POST",
		Path:        "/api/v1/projects/{project_id}/tasks/{task_number}/comments",
		Description: "Add a comment to a task.",
		Params: []Param{
			projectID,
			taskNumber,
			bodyParam("content", KindString, true, "Comment text."),
			bodyParam("author_id", KindString, false, "User or agent writing the comment."),
		},
	},

	// Members
	{
		ID:          "list_project_members",
		Label:       "List project members",
		Method:      "GET",
		Path:        "/api/v1/projects/{project_id}/members",
		Description: "List members of a project.",
		Params:      []Param{projectID},
	},
	{
		ID:          "add_project_member",
		Label:       "Add project member",
		Method:      "POST",
		Path:        "/api/v1/projects/{project_id}/members",
		Description: "Add a user to a project.",
		Params: []Param{
			projectID,
			bodyParam("user_id", KindString, true, "User to add."),
			bodyParam("role", KindString, true, "Role within the project (owner, member, viewer)."),
		},
	},
	{
		ID:          "remove_project_member",
		Label:       "Remove project member",
		Method:      "DELETE",
		Path:        "/api/v1/projects/{project_id}/members/{user_id}",
		Description: "Remove a user from a project.",
		Params:      []Param{projectID, pathParam("user_id", "User to remove.")},
	},

	// Agents
	{
		ID:          "list_agents",
		Label:       "List agents",
		Method:      "GET",
		Path:        "/api/v1/agents",
		Description: "List registered agents.",
		Params: []Param{
			skip,
			limit,
			queryParam("search", KindString, "Text to match in agent name."),
			queryParam("is_archived", KindBoolean, "Filter on archive state."),
		},
	},
	{
		ID:          "get_agent",
		Label:       "Get agent",
		Method:      "GET",
		Path:        "/api/v1/agents/{agent_id}",
		Description: "Get one agent by id.",
		Params:      []Param{pathParam("agent_id", "Agent identifier.")},
	},
	{
		ID:          "create_agent",
		Label:       "Create agent",
		Method:      "POST",
		Path:        "/api/v1/agents",
		Description: "Register an agent.",
		Params: []Param{
			bodyParam("name", KindString, true, "Agent name, unique across the workspace."),
		},
	},
	{
		ID:          "update_agent",
		Label:       "Update agent",
		Method:      "PUT",
		Path:        "/api/v1/agents/{agent_id}",
		Description: "Update agent fields.",
		Params: []Param{
			pathParam("agent_id", "Agent identifier."),
			jsonBody("agent_data", "JSON object of agent fields to update."),
		},
	},
	{
		ID:          "delete_agent",
		Label:       "Delete agent",
		Method:      "DELETE",
		Path:        "/api/v1/agents/{agent_id}",
		Description: "Delete an agent.",
		Params:      []Param{pathParam("agent_id", "Agent identifier.")},
	},
	{
		ID:          "list_agent_rules",
		Label:       "List agent rules",
		Method:      "GET",
		Path:        "/api/v1/rules/agents/{agent_id}",
		Description: "List the rules that apply to an agent.",
		Params:      []Param{pathParam("agent_id", "Agent identifier.")},
	},

	// Memory (knowledge graph)
	{
		ID:          "list_memory_entities",
		Label:       "List memory entities",
		Method:      "GET",
		Path:        "/api/v1/memory/entities",
		Description: "List knowledge-graph entities.",
		Params: []Param{
			skip,
			limit,
			queryParam("entity_type", KindString, "Filter by entity type."),
		},
	},
	{
		ID:          "create_memory_entity",
		Label:       "Create memory entity",
		Method:      "POST",
		Path:        "/api/v1/memory/entities",
		Description: "Create a knowledge-graph entity.",
		Params: []Param{
			jsonBody("entity_data", "JSON object with entity_type, content and optional metadata."),
		},
	},
	{
		ID:          "add_memory_observation",
		Label:       "Add memory observation",
		Method:      "POST",
		Path:        "/api/v1/memory/entities/{entity_id}/observations",
		Description: "Attach an observation to an entity.",
		Params: []Param{
			numberPathParam("entity_id", "Entity identifier."),
			bodyParam("content", KindString, true, "Observation text."),
			bodyParam("source", KindString, false, "Where the observation came from."),
		},
	},
	{
		ID:          "search_memory",
		Label:       "Search memory",
		Method:      "GET",
		Path:        "/api/v1/memory/entities/search",
		Description: "Full-text search over entity content.",
		Params: []Param{
			{Name: "query", Kind: KindString, Required: true, In: InQuery, Description: "Search text."},
			limit,
		},
	},
	{
		ID:          "delete_memory_entity",
		Label:       "Delete memory entity",
		Method:      "DELETE",
		Path:        "/api/v1/memory/entities/{entity_id}",
		Description: "Delete a knowledge-graph entity and its observations.",
		Params:      []Param{numberPathParam("entity_id", "Entity identifier.")},
	},

	// Audit
	{
		ID:          "list_audit_logs",
		Label:       "List audit logs",
		Method:      "GET",
		Path:        "/api/v1/audit-logs",
		Description: "List audit log entries.",
		Params: []Param{
			skip,
			limit,
			queryParam("user_id", KindString, "Only entries for this user."),
			queryParam("action_type", KindString, "Only entries of this action type."),
		},
	},

	// Health
	{
		ID:          "get_health",
		Label:       "Backend health",
		Method:      "GET",
		Path:        "/health",
		Description: "Check that the backend is up.",
	},
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in project-manager catalog. It panics on first use
// if the compiled-in definitions violate a catalog invariant.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = MustNew(builtinTools...)
	})
	return defaultCatalog
}
