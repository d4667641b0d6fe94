package store

import (
	"slices"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

type CategoryPatch struct {
	Name  *string
	Color *string
}

func (s *Store) AddCategory(name, color string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := model.Category{
		ID:        s.newID(),
		Name:      name,
		Color:     color,
		CreatedAt: s.now(),
	}
	s.categories = append(s.categories, c)
	s.commitLocked("add_category")
	return c.ID
}

func (s *Store) UpdateCategory(id string, patch CategoryPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.categoryIndexLocked(id)
	if idx < 0 {
		return
	}
	if patch.Name != nil {
		s.categories[idx].Name = *patch.Name
	}
	if patch.Color != nil {
		s.categories[idx].Color = *patch.Color
	}
	s.commitLocked("update_category")
}

// DeleteCategory also removes every task filed under the category.
func (s *Store) DeleteCategory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.categoryIndexLocked(id)
	if idx < 0 {
		return
	}
	s.categories = slices.Delete(s.categories, idx, idx+1)
	s.tasks = slices.DeleteFunc(s.tasks, func(t model.Task) bool { return t.CategoryID == id })
	s.commitLocked("delete_category")
}

func (s *Store) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

func (s *Store) Category(id string) (model.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.categoryIndexLocked(id)
	if idx < 0 {
		return model.Category{}, false
	}
	return s.categories[idx], true
}

func (s *Store) GetCategoryProgress(categoryID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CategoryProgress(s.tasksInCategoryLocked(categoryID))
}

func (s *Store) tasksInCategoryLocked(categoryID string) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range s.tasks {
		if t.CategoryID == categoryID {
			out = append(out, t)
		}
	}
	return out
}
