package sample

import (
	"time"

	"github.com/sandeepkv93/tasktrack/internal/model"
	"github.com/sandeepkv93/tasktrack/internal/store"
)

func seedCategories(now time.Time) []model.Category {
	return []model.Category{
		{ID: "cat-1", Name: "Business Setup", Color: "#4F46E5", CreatedAt: now},
		{ID: "cat-2", Name: "Compliance", Color: "#10B981", CreatedAt: now},
		{ID: "cat-3", Name: "Finance", Color: "#F59E0B", CreatedAt: now},
	}
}

type seedSubTask struct {
	desc     string
	timeline string
	done     bool
}

func buildSubTasks(newID func() string, in []seedSubTask) []model.SubTask {
	out := make([]model.SubTask, 0, len(in))
	for _, st := range in {
		out = append(out, model.SubTask{ID: newID(), Description: st.desc, Timeline: st.timeline, Completed: st.done})
	}
	return out
}

// InitialSnapshot is the data a fresh install starts with.
func InitialSnapshot(now time.Time, newID func() string) store.Snapshot {
	tasks := []model.Task{
		{
			ID:          "task-1",
			Title:       "Register Private Limited Company",
			Description: "Complete all steps required to register a new private limited company with the Office of Company Registrar.",
			CategoryID:  "cat-1",
			SubTasks: buildSubTasks(newID, []seedSubTask{
				{"Reserve company name", "1-2 days", true},
				{"Prepare Memorandum of Association", "3-4 days", true},
				{"Prepare Articles of Association", "3-4 days", false},
				{"Submit documents to Company Registrar", "1 day", false},
				{"Receive Certificate of Incorporation", "7-10 days", false},
			}),
			Metadata: model.TaskMetadata{
				Contact:  &model.Contact{Name: "Office of Company Registrar", Email: "info@ocr.gov.np", Phone: "+977-1-4215156"},
				Cost:     "50,000 NPR",
				Timeline: "3-4 weeks",
				DocumentsNeeded: []string{
					"Memorandum of Association",
					"Articles of Association",
					"Director Identification Documents",
					"Proof of Registered Office Address",
				},
				Contingencies: "If company name is unavailable, have 3 alternative names ready.",
				ProgressNote:  "Name reserved, Documents being drafted",
			},
		},
		{
			ID:          "task-2",
			Title:       "Obtain Tax Registration Certificate",
			Description: "Register with the tax authorities and obtain Permanent Account Number (PAN) for the company.",
			CategoryID:  "cat-2",
			SubTasks: buildSubTasks(newID, []seedSubTask{
				{"Prepare application for PAN registration", "1 day", true},
				{"Submit application to Inland Revenue Department", "1 day", false},
				{"Receive PAN certificate", "3-5 days", false},
			}),
			Metadata: model.TaskMetadata{
				Contact:  &model.Contact{Name: "Inland Revenue Department", Email: "info@ird.gov.np", Phone: "+977-1-4415802"},
				Cost:     "10,000 NPR",
				Timeline: "1-2 weeks",
				DocumentsNeeded: []string{
					"Certificate of Incorporation",
					"Company Registration Certificate",
					"Director Identification Documents",
				},
				Contingencies: "May need to visit office in person if online application has issues.",
			},
		},
		{
			ID:          "task-3",
			Title:       "Open Business Bank Account",
			Description: "Open a corporate bank account for the newly registered company.",
			CategoryID:  "cat-3",
			SubTasks: buildSubTasks(newID, []seedSubTask{
				{"Research banks and compare offerings", "2-3 days", true},
				{"Prepare required documents", "1 day", true},
				{"Schedule appointment with bank", "1 day", true},
				{"Meet with bank representative", "1 day", false},
				{"Receive account details and banking kit", "3-5 days", false},
			}),
			Metadata: model.TaskMetadata{
				Contact:  &model.Contact{Name: "Nepal Investment Bank", Email: "corporate@nib.com.np", Phone: "+977-1-4228229"},
				Cost:     "5,000 NPR (minimum deposit: 50,000 NPR)",
				Timeline: "1-2 weeks",
				DocumentsNeeded: []string{
					"Certificate of Incorporation",
					"PAN Certificate",
					"Board Resolution for Bank Account Opening",
					"Director Identification Documents",
					"Company Seal",
				},
				Contingencies: "Have alternative bank options if first choice has high fees or requirements.",
			},
		},
	}
	for i := range tasks {
		tasks[i].CreatedAt = now
		tasks[i].UpdatedAt = now
	}
	return store.Snapshot{Tasks: tasks, Categories: seedCategories(now)}
}
