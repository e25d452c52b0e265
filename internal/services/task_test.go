package services

import (
	"errors"
	"testing"
	"time"

	"github.com/taskhive/backend/internal/models"
)

func TestTaskCreate_AssignmentGate(t *testing.T) {
	db := newTestDB(t)
	creator := createTestUser(t, db, "creator", models.RoleMember)
	member := createTestUser(t, db, "member", models.RoleMember)
	outsider := createTestUser(t, db, "outsider", models.RoleMember)
	project := createTestProject(t, db, "Alpha", creator.ID)
	addTestMember(t, db, project.ID, member.ID, creator.ID)

	svc := NewTaskService(db)

	// Outsiders cannot be assigned.
	_, err := svc.Create(asActor(creator), &CreateTaskRequest{
		Title:        "T",
		ProjectID:    project.ID,
		AssignedToID: &outsider.ID,
	})
	if !errors.Is(err, ErrNotAProjectMember) {
		t.Errorf("assigning outsider: expected ErrNotAProjectMember, got %v", err)
	}

	// The creator is assignable despite having no membership row.
	task, err := svc.Create(asActor(member), &CreateTaskRequest{
		Title:        "T",
		ProjectID:    project.ID,
		AssignedToID: &creator.ID,
	})
	if err != nil {
		t.Fatalf("assigning creator: %v", err)
	}
	if task.AssignedToID == nil || *task.AssignedToID != creator.ID {
		t.Error("task should be assigned to the creator")
	}

	// Members are assignable.
	if _, err := svc.Create(asActor(creator), &CreateTaskRequest{
		Title:        "T2",
		ProjectID:    project.ID,
		AssignedToID: &member.ID,
	}); err != nil {
		t.Errorf("assigning member: %v", err)
	}
}

func TestTaskCreate_InvisibleProjectIsNotFound(t *testing.T) {
	db := newTestDB(t)
	creator := createTestUser(t, db, "creator", models.RoleMember)
	outsider := createTestUser(t, db, "outsider", models.RoleMember)
	project := createTestProject(t, db, "Alpha", creator.ID)

	svc := NewTaskService(db)
	_, err := svc.Create(asActor(outsider), &CreateTaskRequest{Title: "T", ProjectID: project.ID})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("outsider creating task: expected ErrNotFound, got %v", err)
	}
}

func TestTaskCreate_RejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	creator := createTestUser(t, db, "creator", models.RoleMember)
	project := createTestProject(t, db, "Alpha", creator.ID)

	svc := NewTaskService(db)
	_, err := svc.Create(asActor(creator), &CreateTaskRequest{
		Title:     "T",
		ProjectID: project.ID,
		Status:    "archived",
	})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestTaskUpdate_DoneStampsCompletedAt(t *testing.T) {
	db := newTestDB(t)
	creator := createTestUser(t, db, "creator", models.RoleMember)
	project := createTestProject(t, db, "Alpha", creator.ID)

	svc := NewTaskService(db)
	task, err := svc.Create(asActor(creator), &CreateTaskRequest{Title: "T", ProjectID: project.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.CompletedAt != nil {
		t.Error("new to_do task should have no completion stamp")
	}

	task, err = svc.UpdateStatus(asActor(creator), task.ID, string(models.TaskStatusDone))
	if err != nil {
		t.Fatalf("move to done: %v", err)
	}
	if task.CompletedAt == nil {
		t.Fatal("done task should carry a completion stamp")
	}

	task, err = svc.UpdateStatus(asActor(creator), task.ID, string(models.TaskStatusInProgress))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if task.CompletedAt != nil {
		t.Error("reopened task should have its completion stamp cleared")
	}
}

func TestTaskUpdate_MemberMayEdit(t *testing.T) {
	db := newTestDB(t)
	creator := createTestUser(t, db, "creator", models.RoleMember)
	member := createTestUser(t, db, "member", models.RoleMember)
	project := createTestProject(t, db, "Alpha", creator.ID)
	addTestMember(t, db, project.ID, member.ID, creator.ID)

	svc := NewTaskService(db)
	task, err := svc.Create(asActor(creator), &CreateTaskRequest{Title: "T", ProjectID: project.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(asActor(member), task.ID, &UpdateTaskRequest{Title: "Edited"})
	if err != nil {
		t.Fatalf("member update: %v", err)
	}
	if updated.Title != "Edited" {
		t.Errorf("Title = %q, expected %q", updated.Title, "Edited")
	}
}

func TestTaskUpdate_ClearAssignee(t *testing.T) {
	db := newTestDB(t)
	creator := createTestUser(t, db, "creator", models.RoleMember)
	member := createTestUser(t, db, "member", models.RoleMember)
	project := createTestProject(t, db, "Alpha", creator.ID)
	addTestMember(t, db, project.ID, member.ID, creator.ID)

	svc := NewTaskService(db)
	task, err := svc.Create(asActor(creator), &CreateTaskRequest{
		Title:        "T",
		ProjectID:    project.ID,
		AssignedToID: &member.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	task, err = svc.Update(asActor(creator), task.ID, &UpdateTaskRequest{ClearAssignee: true})
	if err != nil {
		t.Fatalf("clear assignee: %v", err)
	}
	if task.AssignedToID != nil {
		t.Error("assignee should be cleared")
	}
}

func TestTaskDelete_MemberForbiddenCreatorAllowed(t *testing.T) {
	db := newTestDB(t)
	creator := createTestUser(t, db, "creator", models.RoleMember)
	member := createTestUser(t, db, "member", models.RoleMember)
	project := createTestProject(t, db, "Alpha", creator.ID)
	addTestMember(t, db, project.ID, member.ID, creator.ID)

	tasks := NewTaskService(db)
	comments := NewCommentService(db)

	task, err := tasks.Create(asActor(member), &CreateTaskRequest{Title: "T", ProjectID: project.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := comments.Create(asActor(member), task.ID, &CreateCommentRequest{Content: "hi"}); err != nil {
		t.Fatalf("comment: %v", err)
	}

	// The member can see the task, so denial is explicit rather than a
	// not-found.
	if err := tasks.Delete(asActor(member), task.ID); !errors.Is(err, ErrTaskDeleteForbidden) {
		t.Errorf("member delete: expected ErrTaskDeleteForbidden, got %v", err)
	}

	if err := tasks.Delete(asActor(creator), task.ID); err != nil {
		t.Fatalf("creator delete: %v", err)
	}

	var commentCount int64
	db.Model(&models.Comment{}).Where("task_id = ?", task.ID).Count(&commentCount)
	if commentCount != 0 {
		t.Errorf("deleting a task should remove its thread, %d comments remain", commentCount)
	}
}

func TestTaskList_FiltersAndSortWhitelist(t *testing.T) {
	db := newTestDB(t)
	creator := createTestUser(t, db, "creator", models.RoleMember)
	project := createTestProject(t, db, "Alpha", creator.ID)

	svc := NewTaskService(db)
	for _, title := range []string{"aaa", "bbb", "ccc"} {
		if _, err := svc.Create(asActor(creator), &CreateTaskRequest{Title: title, ProjectID: project.ID}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}
	if _, err := svc.Create(asActor(creator), &CreateTaskRequest{
		Title: "ddd", ProjectID: project.ID, Status: string(models.TaskStatusDone),
	}); err != nil {
		t.Fatalf("create ddd: %v", err)
	}

	resp, err := svc.List(asActor(creator), &TaskListRequest{Status: string(models.TaskStatusToDo)})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("to_do filter: expected 3, got %d", resp.Total)
	}

	resp, err = svc.List(asActor(creator), &TaskListRequest{SortBy: "title", SortOrder: "asc"})
	if err != nil {
		t.Fatalf("List sorted: %v", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Title != "aaa" {
		t.Errorf("title asc sort: expected aaa first")
	}

	// Unknown sort columns fall back instead of reaching the database.
	if _, err := svc.List(asActor(creator), &TaskListRequest{SortBy: "id; DROP TABLE tasks"}); err != nil {
		t.Errorf("hostile sort column should fall back to created_at, got %v", err)
	}

	if _, err := svc.List(asActor(creator), &TaskListRequest{Status: "bogus"}); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bogus status filter: expected ErrInvalidStatus, got %v", err)
	}
}

func TestTaskStatistics(t *testing.T) {
	db := newTestDB(t)
	creator := createTestUser(t, db, "creator", models.RoleMember)
	project := createTestProject(t, db, "Alpha", creator.ID)

	svc := NewTaskService(db)
	past := time.Now().Add(-48 * time.Hour)
	if _, err := svc.Create(asActor(creator), &CreateTaskRequest{
		Title: "late", ProjectID: project.ID, DueDate: &past, Priority: 3,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(asActor(creator), &CreateTaskRequest{
		Title: "done", ProjectID: project.ID, Status: string(models.TaskStatusDone),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	stats, err := svc.Statistics(asActor(creator), project.ID)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.Total != 2 {
		t.Errorf("Total = %d, expected 2", stats.Total)
	}
	if stats.Overdue != 1 {
		t.Errorf("Overdue = %d, expected 1", stats.Overdue)
	}
	if stats.ByStatus[string(models.TaskStatusDone)] != 1 {
		t.Errorf("done count = %d, expected 1", stats.ByStatus[string(models.TaskStatusDone)])
	}
	if stats.ByPriority["high"] != 1 {
		t.Errorf("high priority count = %d, expected 1", stats.ByPriority["high"])
	}
	if stats.Unassigned != 2 {
		t.Errorf("Unassigned = %d, expected 2", stats.Unassigned)
	}
	if stats.AssignedToMe != 0 {
		t.Errorf("AssignedToMe = %d, expected 0", stats.AssignedToMe)
	}
	if stats.CompletionRate != 0.5 {
		t.Errorf("CompletionRate = %v, expected 0.5", stats.CompletionRate)
	}
}
