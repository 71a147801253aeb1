package health

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CheckHealth() (map[string]string, error) {
	result := make(map[string]string)

	if err := s.repo.Ping(); err != nil {
		result["database"] = "error"
		return result, err
	}

	result["database"] = "ok"
	return result, nil
}
