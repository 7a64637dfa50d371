package controllers_test

import (
	"net/http"
	"testing"

	"lms/database"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createQuizModule(t *testing.T, app *fiber.App, adminCookie string, courseID uint) uint {
	t.Helper()
	resp := request(t, app, http.MethodPost, "/admin/course/module/create", adminCookie, fiber.Map{
		"courseId":   courseID,
		"title":      "Checkpoint",
		"moduleType": "quiz",
		"quiz": fiber.Map{
			"title": "Checkpoint Quiz",
			"questions": []fiber.Map{
				{
					"questionText": "Which keyword declares a variable?",
					"options": []fiber.Map{
						{"optionText": "var", "isCorrect": true},
						{"optionText": "let", "isCorrect": false},
					},
				},
				{
					"questionText": "Which are built-in types?",
					"options": []fiber.Map{
						{"optionText": "int", "isCorrect": true},
						{"optionText": "string", "isCorrect": true},
						{"optionText": "number", "isCorrect": false},
					},
				},
			},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var module courseModels.Module
	require.NoError(t, database.Database.Db.Where("course_id = ? AND module_type = ?", courseID, "quiz").
		First(&module).Error)
	return module.ID
}

func quizIDs(t *testing.T, moduleID uint) (quizID uint, questions []courseModels.Question, optionsByQuestion map[uint][]courseModels.QuestionOption) {
	t.Helper()

	var revision courseModels.Revision
	require.NoError(t, database.Database.Db.Where("module_id = ?", moduleID).
		Order("version DESC").First(&revision).Error)
	var quiz courseModels.Quiz
	require.NoError(t, database.Database.Db.Where("revision_id = ?", revision.ID).First(&quiz).Error)
	require.NoError(t, database.Database.Db.Where("quiz_id = ?", quiz.ID).
		Order("position").Find(&questions).Error)

	optionsByQuestion = make(map[uint][]courseModels.QuestionOption)
	for _, question := range questions {
		var options []courseModels.QuestionOption
		require.NoError(t, database.Database.Db.Where("question_id = ?", question.ID).
			Order("id").Find(&options).Error)
		optionsByQuestion[question.ID] = options
	}
	return quiz.ID, questions, optionsByQuestion
}

func correctOptionIDs(options []courseModels.QuestionOption) []uint {
	var ids []uint
	for _, option := range options {
		if option.IsCorrect {
			ids = append(ids, option.ID)
		}
	}
	return ids
}

func TestQuizGradingSetEquality(t *testing.T) {
	app := newTestApp(t)
	adminCookie := signupAdmin(t, app, "admin@acme.test", "Acme")
	org := orgByName(t, "Acme")

	courseID := createCourse(t, app, adminCookie, "Go Basics")
	moduleID := createQuizModule(t, app, adminCookie, courseID)

	employeeCookie := signupEmployee(t, app, "emp@acme.test", org.ID)
	resp := request(t, app, http.MethodPost, "/enrollment/enroll", employeeCookie, fiber.Map{"courseId": courseID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	quizID, questions, options := quizIDs(t, moduleID)
	require.Len(t, questions, 2)

	// exact match on both questions scores 100
	answers := []fiber.Map{
		{"questionId": questions[0].ID, "selectedOptionIds": correctOptionIDs(options[questions[0].ID])},
		{"questionId": questions[1].ID, "selectedOptionIds": correctOptionIDs(options[questions[1].ID])},
	}
	resp = request(t, app, http.MethodPost, "/quiz/submit", employeeCookie, fiber.Map{
		"quizId":  quizID,
		"answers": answers,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(100), data["score"])
	assert.Equal(t, float64(2), data["correct_count"])

	// each graded question exposes the correct and selected option sets
	// with their texts
	graded := data["questions"].([]interface{})
	require.Len(t, graded, 2)
	first := graded[0].(map[string]interface{})
	assert.Equal(t, "Which keyword declares a variable?", first["question_text"])
	assert.Equal(t, true, first["correct"])
	correctOpts := first["correct_options"].([]interface{})
	require.Len(t, correctOpts, 1)
	assert.Equal(t, "var", correctOpts[0].(map[string]interface{})["option_text"])
	selectedOpts := first["selected_options"].([]interface{})
	require.Len(t, selectedOpts, 1)
	assert.Equal(t, "var", selectedOpts[0].(map[string]interface{})["option_text"])
	second := graded[1].(map[string]interface{})
	assert.Len(t, second["correct_options"].([]interface{}), 2)
	assert.Len(t, second["selected_options"].([]interface{}), 2)

	// submitting force-completes the module even without starting it
	var status courseModels.ModuleStatus
	require.NoError(t, database.Database.Db.Where("module_id = ?", moduleID).First(&status).Error)
	assert.Equal(t, courseModels.StatusCompleted, status.Status)

	// a subset of the correct set is wrong, and the mismatch is visible in
	// the returned sets
	partial := correctOptionIDs(options[questions[1].ID])[:1]
	answers = []fiber.Map{
		{"questionId": questions[0].ID, "selectedOptionIds": correctOptionIDs(options[questions[0].ID])},
		{"questionId": questions[1].ID, "selectedOptionIds": partial},
	}
	resp = request(t, app, http.MethodPost, "/quiz/submit", employeeCookie, fiber.Map{
		"quizId":  quizID,
		"answers": answers,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(50), data["score"])
	graded = data["questions"].([]interface{})
	second = graded[1].(map[string]interface{})
	assert.Equal(t, false, second["correct"])
	assert.Len(t, second["correct_options"].([]interface{}), 2)
	assert.Len(t, second["selected_options"].([]interface{}), 1)

	// a superset is wrong too
	q1Options := options[questions[0].ID]
	var allQ1 []uint
	for _, option := range q1Options {
		allQ1 = append(allQ1, option.ID)
	}
	answers = []fiber.Map{
		{"questionId": questions[0].ID, "selectedOptionIds": allQ1},
		{"questionId": questions[1].ID, "selectedOptionIds": correctOptionIDs(options[questions[1].ID])},
	}
	resp = request(t, app, http.MethodPost, "/quiz/submit", employeeCookie, fiber.Map{
		"quizId":  quizID,
		"answers": answers,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(50), data["score"])
}

func TestLatestResponseWins(t *testing.T) {
	app := newTestApp(t)
	adminCookie := signupAdmin(t, app, "admin@acme.test", "Acme")
	org := orgByName(t, "Acme")

	courseID := createCourse(t, app, adminCookie, "Go Basics")
	moduleID := createQuizModule(t, app, adminCookie, courseID)

	employeeCookie := signupEmployee(t, app, "emp@acme.test", org.ID)
	resp := request(t, app, http.MethodPost, "/enrollment/enroll", employeeCookie, fiber.Map{"courseId": courseID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	quizID, questions, options := quizIDs(t, moduleID)

	submit := func(answers []fiber.Map) {
		resp := request(t, app, http.MethodPost, "/quiz/submit", employeeCookie, fiber.Map{
			"quizId":  quizID,
			"answers": answers,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// first a perfect run, then a failing one
	submit([]fiber.Map{
		{"questionId": questions[0].ID, "selectedOptionIds": correctOptionIDs(options[questions[0].ID])},
		{"questionId": questions[1].ID, "selectedOptionIds": correctOptionIDs(options[questions[1].ID])},
	})
	submit([]fiber.Map{
		{"questionId": questions[0].ID, "selectedOptionIds": []uint{options[questions[0].ID][1].ID}},
	})

	resp = request(t, app, http.MethodGet, "/quiz/"+itoa(quizID)+"/result", employeeCookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["score"])
}

func TestVacuousQuestionCountsCorrect(t *testing.T) {
	app := newTestApp(t)
	adminCookie := signupAdmin(t, app, "admin@acme.test", "Acme")
	org := orgByName(t, "Acme")

	courseID := createCourse(t, app, adminCookie, "Go Basics")
	moduleID := createQuizModule(t, app, adminCookie, courseID)

	quizID, questions, options := quizIDs(t, moduleID)

	// strip the correct flags from the first question; with nothing selected
	// the empty sets match and the question grades correct
	require.NoError(t, database.Database.Db.Model(&courseModels.QuestionOption{}).
		Where("question_id = ?", questions[0].ID).
		Update("is_correct", false).Error)

	employeeCookie := signupEmployee(t, app, "emp@acme.test", org.ID)
	resp := request(t, app, http.MethodPost, "/enrollment/enroll", employeeCookie, fiber.Map{"courseId": courseID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = request(t, app, http.MethodPost, "/quiz/submit", employeeCookie, fiber.Map{
		"quizId": quizID,
		"answers": []fiber.Map{
			{"questionId": questions[1].ID, "selectedOptionIds": correctOptionIDs(options[questions[1].ID])},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(100), data["score"])
}
