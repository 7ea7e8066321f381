// Package seed loads demo users, projects and tickets. Every record is
// looked up by its natural key first, so running it twice changes nothing.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"board-service/internal/domain/entities"
	"board-service/internal/domain/repositories"
)

type Repositories struct {
	Users    repositories.UserRepository
	Projects repositories.ProjectRepository
	Tickets  repositories.TicketRepository
}

type userSeed struct {
	email, name, password string
}

type ticketSeed struct {
	name, description string
	status            entities.Status
	project           int
	assignee          int // -1 for unassigned
}

var (
	users = []userSeed{
		{"alice@example.com", "Alice Smith", "password123"},
		{"bob@example.com", "Bob Johnson", "password456"},
	}
	projects = []struct {
		name  string
		owner int
	}{
		{"ECE1779 Final Project", 0},
		{"Personal Website", 1},
	}
	tickets = []ticketSeed{
		{"Setup project repository", "Initialize the Git repository and set up the project structure", entities.StatusDone, 0, 0},
		{"Design database schema", "Create the database models for users and tickets", entities.StatusDone, 0, 1},
		{"Implement REST API endpoints", "Create GET /tickets endpoint and user management APIs", entities.StatusInProgress, 0, 0},
		{"Add authentication", "Implement user authentication and authorization", entities.StatusTodo, 0, 1},
		{"Deploy to production", "Set up CI/CD pipeline and deploy the application", entities.StatusTodo, 0, 0},
		{"Add real-time notifications", "Implement WebSocket support for real-time updates", entities.StatusWontDo, 1, -1},
	}
)

// Result counts what this run created.
type Result struct {
	Users, Projects, Tickets int
}

func Run(ctx context.Context, repos Repositories, scheme entities.PasswordScheme, log *slog.Logger) (Result, error) {
	var result Result

	seededUsers := make([]*entities.User, len(users))
	for i, u := range users {
		user, err := repos.Users.FindByEmail(ctx, u.email)
		if err != nil {
			return result, err
		}
		if user == nil {
			validated, err := entities.NewValidatedUser(entities.NewUser(u.email, u.name, u.password))
			if err != nil {
				return result, err
			}
			if err := validated.ApplyScheme(scheme); err != nil {
				return result, err
			}
			if user, err = repos.Users.Create(ctx, validated); err != nil {
				return result, fmt.Errorf("create user %s: %w", u.email, err)
			}
			result.Users++
			log.Info("created user", "email", u.email)
		}
		seededUsers[i] = user
	}

	seededProjects := make([]*entities.Project, len(projects))
	for i, p := range projects {
		project, err := repos.Projects.FindByName(ctx, p.name)
		if err != nil {
			return result, err
		}
		if project == nil {
			if project, err = repos.Projects.Create(ctx, entities.NewProject(p.name, seededUsers[p.owner])); err != nil {
				return result, fmt.Errorf("create project %s: %w", p.name, err)
			}
			result.Projects++
			log.Info("created project", "name", p.name)
		}
		seededProjects[i] = project
	}

	for _, t := range tickets {
		existing, err := repos.Tickets.FindByName(ctx, t.name)
		if err != nil {
			return result, err
		}
		if existing != nil {
			continue
		}

		ticket := entities.NewTicket(t.name, t.description, t.status, seededProjects[t.project].Id)
		if t.assignee >= 0 {
			ticket.Assign(seededUsers[t.assignee])
		}
		if _, err := repos.Tickets.Create(ctx, ticket); err != nil {
			return result, fmt.Errorf("create ticket %s: %w", t.name, err)
		}
		result.Tickets++
		log.Info("created ticket", "name", t.name)
	}
	return result, nil
}
