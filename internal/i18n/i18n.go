// Package i18n holds the English and French string tables.
//
// Lookups fall back to English, then to the key itself, so a missing
// translation never renders as an empty string.
package i18n

import "github.com/idilsaglam/klaboard/internal/model"

// Lang is a table code.
type Lang string

const (
	English Lang = "en"
	French  Lang = "fr"
)

// Fallback is used when a key is missing in the requested table.
const Fallback = English

// Parse returns the table for code, or English for anything unknown.
func Parse(code string) Lang {
	if code == string(French) {
		return French
	}
	return English
}

// Next cycles en -> fr -> en.
func (l Lang) Next() Lang {
	if l == French {
		return English
	}
	return French
}

// T looks up key in lang's table.
func T(lang Lang, key string) string {
	if s, ok := tables[lang][key]; ok {
		return s
	}
	if s, ok := tables[Fallback][key]; ok {
		return s
	}
	return key
}

// Translator binds a language so callers can write tr.T("key").
type Translator struct{ Lang Lang }

func (tr Translator) T(key string) string { return T(tr.Lang, key) }

// StatusKey is the column title key for a status.
func StatusKey(s model.Status) string {
	switch s {
	case model.StatusTodo:
		return "todo"
	case model.StatusProgress:
		return "onProgress"
	case model.StatusReview:
		return "needReview"
	case model.StatusDone:
		return "done"
	}
	return string(s)
}

// NoticeKeys returns the title and description keys for the outcome of a
// create, update or delete.
func NoticeKeys(op string, failed bool) (title, desc string) {
	switch {
	case op == "create" && !failed:
		title = "taskCreated"
	case op == "create":
		title = "createFailed"
	case op == "update" && !failed:
		title = "taskUpdated"
	case op == "update":
		title = "updateFailed"
	case op == "delete" && !failed:
		title = "taskDeleted"
	case op == "delete":
		title = "deleteFailed"
	default:
		return "error", "error"
	}
	return title, title + "Desc"
}

// DayKeys are the weekday keys, Monday first.
var DayKeys = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var tables = map[Lang]map[string]string{
	English: {
		"search":            "Search",
		"searchPlaceholder": "Search tasks...",

		"board":    "Board",
		"list":     "List",
		"timeline": "Timeline",

		"todo":       "To-do",
		"onProgress": "On Progress",
		"needReview": "Need Review",
		"done":       "Done",

		"addTask":       "Add Task",
		"createTask":    "Create Task",
		"editTask":      "Edit Task",
		"deleteTask":    "Delete Task",
		"deleteConfirm": "Are you sure you want to delete this task?",
		"cancel":        "Cancel",
		"save":          "Save",
		"delete":        "Delete",
		"edit":          "Edit",

		"taskTitle":   "Task Title",
		"description": "Description",
		"dueDate":     "Due Date",
		"startDate":   "Start Date",
		"priority":    "Priority",
		"status":      "Status",
		"assignee":    "Assignee",
		"checklist":   "Checklist",
		"attachments": "Attachments",
		"comments":    "Comments",

		"high":   "High",
		"medium": "Medium",
		"low":    "Low",

		"tasks":     "tasks",
		"noTasks":   "No tasks yet",
		"loading":   "Loading...",
		"error":     "Something went wrong",
		"retry":     "Retry",
		"retryHint": "press r to retry",

		"filter": "Filter",
		"sort":   "Sort",
		"sortBy": "Sort by",
		"all":    "All",

		"monday":    "Monday",
		"tuesday":   "Tuesday",
		"wednesday": "Wednesday",
		"thursday":  "Thursday",
		"friday":    "Friday",
		"saturday":  "Saturday",
		"sunday":    "Sunday",

		"theme":    "Theme",
		"light":    "Light",
		"dark":     "Dark",
		"system":   "System",
		"language": "Language",
		"english":  "English",
		"french":   "French",

		"titleRequired": "Title cannot be empty",

		"taskCreated":      "Task Created",
		"taskCreatedDesc":  "Your task has been created successfully.",
		"createFailed":     "Creation Failed",
		"createFailedDesc": "Failed to create task. Please try again.",
		"taskUpdated":      "Task Updated",
		"taskUpdatedDesc":  "Your changes have been saved.",
		"updateFailed":     "Update Failed",
		"updateFailedDesc": "Failed to update task. Please try again.",
		"taskDeleted":      "Task Deleted",
		"taskDeletedDesc":  "Task has been removed.",
		"deleteFailed":     "Deletion Failed",
		"deleteFailedDesc": "Failed to delete task. Please try again.",
	},
	French: {
		"search":            "Rechercher",
		"searchPlaceholder": "Rechercher des tâches...",

		"board":    "Tableau",
		"list":     "Liste",
		"timeline": "Chronologie",

		"todo":       "À faire",
		"onProgress": "En cours",
		"needReview": "À réviser",
		"done":       "Terminé",

		"addTask":       "Ajouter une tâche",
		"createTask":    "Créer une tâche",
		"editTask":      "Modifier la tâche",
		"deleteTask":    "Supprimer la tâche",
		"deleteConfirm": "Êtes-vous sûr de vouloir supprimer cette tâche?",
		"cancel":        "Annuler",
		"save":          "Enregistrer",
		"delete":        "Supprimer",
		"edit":          "Modifier",

		"taskTitle":   "Titre de la tâche",
		"description": "Description",
		"dueDate":     "Date limite",
		"startDate":   "Date de début",
		"priority":    "Priorité",
		"status":      "Statut",
		"assignee":    "Assigné à",
		"checklist":   "Liste de contrôle",
		"attachments": "Pièces jointes",
		"comments":    "Commentaires",

		"high":   "Haute",
		"medium": "Moyenne",
		"low":    "Basse",

		"tasks":     "tâches",
		"noTasks":   "Aucune tâche pour le moment",
		"loading":   "Chargement...",
		"error":     "Une erreur est survenue",
		"retry":     "Réessayer",
		"retryHint": "appuyez sur r pour réessayer",

		"filter": "Filtrer",
		"sort":   "Trier",
		"sortBy": "Trier par",
		"all":    "Tout",

		"monday":    "Lundi",
		"tuesday":   "Mardi",
		"wednesday": "Mercredi",
		"thursday":  "Jeudi",
		"friday":    "Vendredi",
		"saturday":  "Samedi",
		"sunday":    "Dimanche",

		"theme":    "Thème",
		"light":    "Clair",
		"dark":     "Sombre",
		"system":   "Système",
		"language": "Langue",
		"english":  "Anglais",
		"french":   "Français",

		"titleRequired": "Le titre ne peut pas être vide",

		"taskCreated":      "Tâche créée",
		"taskCreatedDesc":  "Votre tâche a été créée.",
		"createFailed":     "Échec de la création",
		"createFailedDesc": "Impossible de créer la tâche. Veuillez réessayer.",
		"taskUpdated":      "Tâche mise à jour",
		"taskUpdatedDesc":  "Vos modifications ont été enregistrées.",
		"updateFailed":     "Échec de la mise à jour",
		"updateFailedDesc": "Impossible de mettre à jour la tâche. Veuillez réessayer.",
		"taskDeleted":      "Tâche supprimée",
		"taskDeletedDesc":  "La tâche a été supprimée.",
		"deleteFailed":     "Échec de la suppression",
		"deleteFailedDesc": "Impossible de supprimer la tâche. Veuillez réessayer.",
	},
}
