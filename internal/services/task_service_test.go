package services

import (
	"testing"
	"time"

	"github.com/harune/tenant-tracker/internal/models"
	"github.com/harune/tenant-tracker/internal/policy"
	"github.com/stretchr/testify/require"
)

func TestCreateTask(t *testing.T) {
	env := setupTestEnv(t)
	tenant := env.createTenant(t, "Acme", "acme", 5, 3)
	member := env.createUser(t, &tenant.ID, "user@acme.test", models.RoleUser)
	project := env.createProject(t, tenant.ID, member.ID, "Website")

	task, err := env.tasks.CreateTask(principalFor(member), project.ID, CreateTaskInput{
		Title:      "Design landing page",
		AssignedTo: &member.ID,
	})
	require.NoError(t, err)
	require.Equal(t, project.ID, task.ProjectID)
	// The task inherits the project's tenant.
	require.Equal(t, tenant.ID, task.TenantID)
	require.Equal(t, models.TaskStatusTodo, task.Status)
	require.Equal(t, models.TaskPriorityMedium, task.Priority)
}

func TestCreateTask_AssigneeMustBelongToTenant(t *testing.T) {
	env := setupTestEnv(t)
	acme := env.createTenant(t, "Acme", "acme", 5, 3)
	globex := env.createTenant(t, "Globex", "globex", 5, 3)
	acmeUser := env.createUser(t, &acme.ID, "user@acme.test", models.RoleUser)
	globexUser := env.createUser(t, &globex.ID, "user@globex.test", models.RoleUser)
	project := env.createProject(t, acme.ID, acmeUser.ID, "Website")

	_, err := env.tasks.CreateTask(principalFor(acmeUser), project.ID, CreateTaskInput{
		Title:      "Smuggle work out",
		AssignedTo: &globexUser.ID,
	})
	require.ErrorIs(t, err, ErrInvalidAssignee)

	missing := uint64(9999)
	_, err = env.tasks.CreateTask(principalFor(acmeUser), project.ID, CreateTaskInput{
		Title:      "Assign to nobody",
		AssignedTo: &missing,
	})
	require.ErrorIs(t, err, ErrInvalidAssignee)
}

func TestCreateTask_CrossTenantProjectReadsAsNotFound(t *testing.T) {
	env := setupTestEnv(t)
	acme := env.createTenant(t, "Acme", "acme", 5, 3)
	globex := env.createTenant(t, "Globex", "globex", 5, 3)
	acmeUser := env.createUser(t, &acme.ID, "user@acme.test", models.RoleUser)
	globexUser := env.createUser(t, &globex.ID, "user@globex.test", models.RoleUser)
	project := env.createProject(t, acme.ID, acmeUser.ID, "Website")

	_, err := env.tasks.CreateTask(principalFor(globexUser), project.ID, CreateTaskInput{
		Title: "Intrusion",
	})
	require.ErrorIs(t, err, policy.ErrNotFound)
}

func TestListTasks_PriorityOrdering(t *testing.T) {
	env := setupTestEnv(t)
	tenant := env.createTenant(t, "Acme", "acme", 5, 3)
	member := env.createUser(t, &tenant.ID, "user@acme.test", models.RoleUser)
	project := env.createProject(t, tenant.ID, member.ID, "Website")

	soon := time.Now().Add(24 * time.Hour)
	later := time.Now().Add(72 * time.Hour)

	for _, tc := range []struct {
		title    string
		priority models.TaskPriority
		due      *time.Time
	}{
		{"low task", models.TaskPriorityLow, nil},
		{"high later", models.TaskPriorityHigh, &later},
		{"medium task", models.TaskPriorityMedium, nil},
		{"high soon", models.TaskPriorityHigh, &soon},
	} {
		require.NoError(t, env.db.Create(&models.Task{
			ProjectID: project.ID,
			TenantID:  tenant.ID,
			Title:     tc.title,
			Status:    models.TaskStatusTodo,
			Priority:  tc.priority,
			DueDate:   tc.due,
		}).Error)
	}

	tasks, err := env.tasks.ListTasks(principalFor(member), project.ID, ListTasksInput{})
	require.NoError(t, err)
	require.Len(t, tasks, 4)
	require.Equal(t, "high soon", tasks[0].Title)
	require.Equal(t, "high later", tasks[1].Title)
	require.Equal(t, "medium task", tasks[2].Title)
	require.Equal(t, "low task", tasks[3].Title)
}

func TestListTasks_Filters(t *testing.T) {
	env := setupTestEnv(t)
	tenant := env.createTenant(t, "Acme", "acme", 5, 3)
	member := env.createUser(t, &tenant.ID, "user@acme.test", models.RoleUser)
	project := env.createProject(t, tenant.ID, member.ID, "Website")

	require.NoError(t, env.db.Create(&models.Task{
		ProjectID:  project.ID,
		TenantID:   tenant.ID,
		Title:      "Mine",
		Status:     models.TaskStatusInProgress,
		Priority:   models.TaskPriorityHigh,
		AssignedTo: &member.ID,
	}).Error)
	require.NoError(t, env.db.Create(&models.Task{
		ProjectID: project.ID,
		TenantID:  tenant.ID,
		Title:     "Unassigned",
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityLow,
	}).Error)

	status := models.TaskStatusInProgress
	tasks, err := env.tasks.ListTasks(principalFor(member), project.ID, ListTasksInput{Status: &status})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "Mine", tasks[0].Title)

	tasks, err = env.tasks.ListTasks(principalFor(member), project.ID, ListTasksInput{AssignedTo: &member.ID})
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	tasks, err = env.tasks.ListTasks(principalFor(member), project.ID, ListTasksInput{Search: "unas"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "Unassigned", tasks[0].Title)
}

func TestUpdateTask_Unassign(t *testing.T) {
	env := setupTestEnv(t)
	tenant := env.createTenant(t, "Acme", "acme", 5, 3)
	member := env.createUser(t, &tenant.ID, "user@acme.test", models.RoleUser)
	project := env.createProject(t, tenant.ID, member.ID, "Website")

	task, err := env.tasks.CreateTask(principalFor(member), project.ID, CreateTaskInput{
		Title:      "Assigned",
		AssignedTo: &member.ID,
	})
	require.NoError(t, err)

	// An explicit unassign clears the field; an absent field leaves it.
	got, err := env.tasks.UpdateTask(principalFor(member), task.ID, UpdateTaskInput{ClearAssignee: true})
	require.NoError(t, err)
	require.Nil(t, got.AssignedTo)

	title := "Still unassigned"
	got, err = env.tasks.UpdateTask(principalFor(member), task.ID, UpdateTaskInput{Title: &title})
	require.NoError(t, err)
	require.Nil(t, got.AssignedTo)
	require.Equal(t, "Still unassigned", got.Title)
}

func TestUpdateTask_ClearDueDate(t *testing.T) {
	env := setupTestEnv(t)
	tenant := env.createTenant(t, "Acme", "acme", 5, 3)
	member := env.createUser(t, &tenant.ID, "user@acme.test", models.RoleUser)
	project := env.createProject(t, tenant.ID, member.ID, "Website")

	due := time.Now().Add(48 * time.Hour)
	task, err := env.tasks.CreateTask(principalFor(member), project.ID, CreateTaskInput{
		Title:   "Due soon",
		DueDate: &due,
	})
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)

	got, err := env.tasks.UpdateTask(principalFor(member), task.ID, UpdateTaskInput{ClearDueDate: true})
	require.NoError(t, err)
	require.Nil(t, got.DueDate)
}

func TestUpdateTaskStatus_Idempotent(t *testing.T) {
	env := setupTestEnv(t)
	tenant := env.createTenant(t, "Acme", "acme", 5, 3)
	member := env.createUser(t, &tenant.ID, "user@acme.test", models.RoleUser)
	project := env.createProject(t, tenant.ID, member.ID, "Website")

	task, err := env.tasks.CreateTask(principalFor(member), project.ID, CreateTaskInput{Title: "Work"})
	require.NoError(t, err)

	got, err := env.tasks.UpdateTaskStatus(principalFor(member), task.ID, models.TaskStatusCompleted)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusCompleted, got.Status)

	// Setting the same status again succeeds without change.
	got, err = env.tasks.UpdateTaskStatus(principalFor(member), task.ID, models.TaskStatusCompleted)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusCompleted, got.Status)
}

func TestUpdateTaskStatus_InvalidValue(t *testing.T) {
	env := setupTestEnv(t)
	tenant := env.createTenant(t, "Acme", "acme", 5, 3)
	member := env.createUser(t, &tenant.ID, "user@acme.test", models.RoleUser)
	project := env.createProject(t, tenant.ID, member.ID, "Website")

	task, err := env.tasks.CreateTask(principalFor(member), project.ID, CreateTaskInput{Title: "Work"})
	require.NoError(t, err)

	_, err = env.tasks.UpdateTaskStatus(principalFor(member), task.ID, models.TaskStatus("paused"))
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTask_CrossTenantReadsAsNotFound(t *testing.T) {
	env := setupTestEnv(t)
	acme := env.createTenant(t, "Acme", "acme", 5, 3)
	globex := env.createTenant(t, "Globex", "globex", 5, 3)
	acmeUser := env.createUser(t, &acme.ID, "user@acme.test", models.RoleUser)
	globexUser := env.createUser(t, &globex.ID, "user@globex.test", models.RoleUser)
	project := env.createProject(t, acme.ID, acmeUser.ID, "Website")

	task, err := env.tasks.CreateTask(principalFor(acmeUser), project.ID, CreateTaskInput{Title: "Private"})
	require.NoError(t, err)

	_, err = env.tasks.GetTask(principalFor(globexUser), task.ID)
	require.ErrorIs(t, err, policy.ErrNotFound)

	_, err = env.tasks.UpdateTaskStatus(principalFor(globexUser), task.ID, models.TaskStatusCompleted)
	require.ErrorIs(t, err, policy.ErrNotFound)

	err = env.tasks.DeleteTask(principalFor(globexUser), task.ID)
	require.ErrorIs(t, err, policy.ErrNotFound)
}

func TestGetTask_SuperAdminReadsAsNotFound(t *testing.T) {
	env := setupTestEnv(t)
	tenant := env.createTenant(t, "Acme", "acme", 5, 3)
	member := env.createUser(t, &tenant.ID, "user@acme.test", models.RoleUser)
	super := env.createUser(t, nil, "root@platform.test", models.RoleSuperAdmin)
	project := env.createProject(t, tenant.ID, member.ID, "Website")

	task, err := env.tasks.CreateTask(principalFor(member), project.ID, CreateTaskInput{Title: "Tenant work"})
	require.NoError(t, err)

	// A super admin has no tenant membership; task reads deny it the same
	// way project reads do.
	_, err = env.tasks.GetTask(principalFor(super), task.ID)
	require.ErrorIs(t, err, policy.ErrNotFound)

	_, err = env.projects.GetProject(principalFor(super), project.ID)
	require.ErrorIs(t, err, policy.ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	env := setupTestEnv(t)
	tenant := env.createTenant(t, "Acme", "acme", 5, 3)
	member := env.createUser(t, &tenant.ID, "user@acme.test", models.RoleUser)
	project := env.createProject(t, tenant.ID, member.ID, "Website")

	task, err := env.tasks.CreateTask(principalFor(member), project.ID, CreateTaskInput{Title: "Done soon"})
	require.NoError(t, err)

	require.NoError(t, env.tasks.DeleteTask(principalFor(member), task.ID))

	_, err = env.tasks.GetTask(principalFor(member), task.ID)
	require.ErrorIs(t, err, policy.ErrNotFound)
}
