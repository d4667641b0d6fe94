package store

import (
	"slices"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

type SubTaskDraft struct {
	Heading      string
	Description  string
	BulletPoints []string
	Timeline     string
}

type SubTaskPatch struct {
	Heading      *string
	Description  *string
	BulletPoints *[]string
	Timeline     *string
	Completed    *bool
}

func (s *Store) AddSubTask(taskID string, draft SubTaskDraft) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.taskIndexLocked(taskID)
	if idx < 0 {
		return ""
	}
	t := &s.tasks[idx]
	st := model.SubTask{
		ID:           s.newID(),
		Heading:      draft.Heading,
		Description:  draft.Description,
		BulletPoints: slices.Clone(draft.BulletPoints),
		Timeline:     draft.Timeline,
	}
	t.SubTasks = append(t.SubTasks, st)
	s.touch(t)
	s.commitLocked("add_sub_task")
	return st.ID
}

func (s *Store) UpdateSubTask(taskID, subTaskID string, patch SubTaskPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, stIdx := s.subTaskLocked(taskID, subTaskID)
	if t == nil {
		return
	}
	st := &t.SubTasks[stIdx]
	if patch.Heading != nil {
		st.Heading = *patch.Heading
	}
	if patch.Description != nil {
		st.Description = *patch.Description
	}
	if patch.BulletPoints != nil {
		st.BulletPoints = slices.Clone(*patch.BulletPoints)
	}
	if patch.Timeline != nil {
		st.Timeline = *patch.Timeline
	}
	if patch.Completed != nil {
		st.Completed = *patch.Completed
	}
	s.touch(t)
	s.commitLocked("update_sub_task")
}

func (s *Store) DeleteSubTask(taskID, subTaskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, stIdx := s.subTaskLocked(taskID, subTaskID)
	if t == nil {
		return
	}
	t.SubTasks = slices.Delete(t.SubTasks, stIdx, stIdx+1)
	s.touch(t)
	s.commitLocked("delete_sub_task")
}

// ToggleSubTask flips one sub-task. When that leaves every sub-task complete,
// all progress steps are completed too; un-completing never reverts steps.
func (s *Store) ToggleSubTask(taskID, subTaskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, stIdx := s.subTaskLocked(taskID, subTaskID)
	if t == nil {
		return
	}
	t.SubTasks[stIdx].Completed = !t.SubTasks[stIdx].Completed
	if t.IsCompleted() && t.Metadata.ProgressTracker != nil {
		for i := range t.Metadata.ProgressTracker.Steps {
			t.Metadata.ProgressTracker.Steps[i].Completed = true
		}
	}
	s.touch(t)
	s.commitLocked("toggle_sub_task")
}

func (s *Store) subTaskLocked(taskID, subTaskID string) (*model.Task, int) {
	idx := s.taskIndexLocked(taskID)
	if idx < 0 {
		return nil, -1
	}
	t := &s.tasks[idx]
	stIdx := t.SubTaskIndex(subTaskID)
	if stIdx < 0 {
		return nil, -1
	}
	return t, stIdx
}
