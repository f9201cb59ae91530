package user

import (
	"context"
)

type StubUserRepo struct {
	nextId       int
	data         map[int]User
	ownedBudgets map[int]int
}

func NewStubUserRepo() *StubUserRepo {
	return &StubUserRepo{
		nextId:       0,
		data:         map[int]User{},
		ownedBudgets: map[int]int{},
	}
}

func (s *StubUserRepo) CreateUser(ctx context.Context, user User) (int, error) {
	for _, existing := range s.data {
		if existing.Email == user.Email {
			return 0, ErrEmailTaken
		}
	}
	s.nextId++
	user.Id = s.nextId
	if user.Role == "" {
		user.Role = RoleEmployee
	}
	user.IsActive = true
	s.data[user.Id] = user
	return user.Id, nil
}

func (s *StubUserRepo) GetUser(ctx context.Context, id int) (User, error) {
	u, ok := s.data[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *StubUserRepo) GetUserByUid(ctx context.Context, uid string) (User, error) {
	for _, u := range s.data {
		if u.Uid == uid {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *StubUserRepo) GetUserByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range s.data {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *StubUserRepo) UpdateUser(ctx context.Context, userId int, user User) (bool, error) {
	existing, ok := s.data[userId]
	if !ok {
		return false, nil
	}
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.Department = user.Department
	existing.Position = user.Position
	existing.HourlyRateCents = user.HourlyRateCents
	s.data[userId] = existing
	return true, nil
}

func (s *StubUserRepo) DeleteUser(ctx context.Context, id int) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubUserRepo) CountOwnedBudgets(ctx context.Context, id int) (int, error) {
	return s.ownedBudgets[id], nil
}

func (s *StubUserRepo) SetOwnedBudgets(id int, count int) {
	s.ownedBudgets[id] = count
}

func (s *StubUserRepo) Cleanup() {
	s.data = map[int]User{}
	s.ownedBudgets = map[int]int{}
}
