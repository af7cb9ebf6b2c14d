package sqlite

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/iudanet/communitas/internal/models"
	"github.com/iudanet/communitas/internal/server/storage"
)

// ListUserProfiles возвращает все профили
func (s *Storage) ListUserProfiles(ctx context.Context) ([]models.UserProfile, error) {
	query := `
		SELECT id, user_id, role_id, level_id, area_id, company_size, sector, created_at, updated_at
		FROM user_profiles
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list user profiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var profiles []models.UserProfile
	for rows.Next() {
		var (
			p         models.UserProfile
			createdAt int64
			updatedAt int64
		)
		err := rows.Scan(&p.ID, &p.UserID, &p.RoleID, &p.LevelID, &p.AreaID,
			&p.CompanySize, &p.Sector, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user profile: %w", err)
		}
		p.CreatedAt = time.Unix(createdAt, 0).UTC()
		p.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user profiles: %w", err)
	}

	return profiles, nil
}

// CreateUserProfile создает профиль
func (s *Storage) CreateUserProfile(ctx context.Context, p *models.UserProfile) error {
	query := `
		INSERT INTO user_profiles (id, user_id, role_id, level_id, area_id,
		                           company_size, sector, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.RoleID, p.LevelID, p.AreaID,
		p.CompanySize, p.Sector, p.CreatedAt.Unix(), p.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create user profile: %w", err)
	}
	return nil
}

// UpdateUserProfile обновляет профиль целиком
func (s *Storage) UpdateUserProfile(ctx context.Context, p *models.UserProfile) error {
	query := `
		UPDATE user_profiles
		SET role_id = ?, level_id = ?, area_id = ?, company_size = ?, sector = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		p.RoleID, p.LevelID, p.AreaID, p.CompanySize, p.Sector,
		time.Now().UTC().Unix(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	return requireAffected(result.RowsAffected())
}

// DeleteUserProfile удаляет профиль
func (s *Storage) DeleteUserProfile(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM user_profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user profile: %w", err)
	}
	return requireAffected(result.RowsAffected())
}

// ListQuestions возвращает вопросы в порядке position
func (s *Storage) ListQuestions(ctx context.Context) ([]models.Question, error) {
	query := `
		SELECT id, text, category, position, created_at
		FROM questions
		ORDER BY position ASC, created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var questions []models.Question
	for rows.Next() {
		var (
			q         models.Question
			createdAt int64
		)
		if err := rows.Scan(&q.ID, &q.Text, &q.Category, &q.Position, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		q.CreatedAt = time.Unix(createdAt, 0).UTC()
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions: %w", err)
	}

	return questions, nil
}

// CreateQuestion создает вопрос
func (s *Storage) CreateQuestion(ctx context.Context, q *models.Question) error {
	query := `
		INSERT INTO questions (id, text, category, position, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query, q.ID, q.Text, q.Category, q.Position, q.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

// UpdateQuestion обновляет вопрос
func (s *Storage) UpdateQuestion(ctx context.Context, q *models.Question) error {
	query := `UPDATE questions SET text = ?, category = ?, position = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, q.Text, q.Category, q.Position, q.ID)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return requireAffected(result.RowsAffected())
}

// DeleteQuestion удаляет вопрос (ответы каскадом)
func (s *Storage) DeleteQuestion(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return requireAffected(result.RowsAffected())
}

// ListAnswers возвращает все ответы
func (s *Storage) ListAnswers(ctx context.Context) ([]models.Answer, error) {
	query := `
		SELECT id, question_id, user_id, value, created_at
		FROM answers
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var answers []models.Answer
	for rows.Next() {
		var (
			a         models.Answer
			createdAt int64
		)
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.UserID, &a.Value, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		a.CreatedAt = time.Unix(createdAt, 0).UTC()
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate answers: %w", err)
	}

	return answers, nil
}

// CreateAnswer создает ответ
func (s *Storage) CreateAnswer(ctx context.Context, a *models.Answer) error {
	query := `
		INSERT INTO answers (id, question_id, user_id, value, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query, a.ID, a.QuestionID, a.UserID, a.Value, a.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create answer: %w", err)
	}
	return nil
}

// DeleteAnswer удаляет ответ
func (s *Storage) DeleteAnswer(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM answers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete answer: %w", err)
	}
	return requireAffected(result.RowsAffected())
}

// ListGenAIAdoption возвращает все записи genai adoption
func (s *Storage) ListGenAIAdoption(ctx context.Context) ([]models.GenAIAdoption, error) {
	query := `
		SELECT id, user_id, tool, frequency, notes, created_at
		FROM genai_adoption
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list genai adoption: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []models.GenAIAdoption
	for rows.Next() {
		var (
			g         models.GenAIAdoption
			createdAt int64
		)
		if err := rows.Scan(&g.ID, &g.UserID, &g.Tool, &g.Frequency, &g.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan genai adoption: %w", err)
		}
		g.CreatedAt = time.Unix(createdAt, 0).UTC()
		records = append(records, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate genai adoption: %w", err)
	}

	return records, nil
}

// CreateGenAIAdoption создает запись genai adoption
func (s *Storage) CreateGenAIAdoption(ctx context.Context, g *models.GenAIAdoption) error {
	query := `
		INSERT INTO genai_adoption (id, user_id, tool, frequency, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query, g.ID, g.UserID, g.Tool, g.Frequency, g.Notes, g.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create genai adoption: %w", err)
	}
	return nil
}

// DeleteGenAIAdoption удаляет запись genai adoption
func (s *Storage) DeleteGenAIAdoption(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM genai_adoption WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete genai adoption: %w", err)
	}
	return requireAffected(result.RowsAffected())
}

// ListLookup возвращает справочник по имени таблицы.
// Имя проверяется по белому списку, в SQL не интерполируется произвольное.
func (s *Storage) ListLookup(ctx context.Context, table string) ([]models.LookupItem, error) {
	if !slices.Contains(storage.LookupTables, table) {
		return nil, storage.ErrUnknownLookup
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, name FROM %s ORDER BY name`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to list lookup %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var items []models.LookupItem
	for rows.Next() {
		var item models.LookupItem
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, fmt.Errorf("failed to scan lookup item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lookup %s: %w", table, err)
	}

	return items, nil
}

func requireAffected(affected int64, err error) error {
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrRecordNotFound
	}
	return nil
}
