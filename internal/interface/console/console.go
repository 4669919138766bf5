// Package console is an interactive menu over the user facade, reading
// commands line by line.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/oksasatya/go-user-notification/internal/application/dto"
)

type UserService interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error)
	GetUserByID(ctx context.Context, id int64) (dto.UserResponse, bool, error)
	GetUserByEmail(ctx context.Context, email string) (dto.UserResponse, bool, error)
	GetAllUsers(ctx context.Context) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, req dto.UpdateUserRequest) (dto.UserResponse, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
}

type Console struct {
	svc UserService
	in  *bufio.Scanner
	out io.Writer
}

func New(svc UserService, in io.Reader, out io.Writer) *Console {
	return &Console{svc: svc, in: bufio.NewScanner(in), out: out}
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	c.println("=== User Service Console ===")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.printMenu()
		choice, ok := c.readLine()
		if !ok {
			c.println("")
			return c.in.Err()
		}

		var err error
		switch strings.TrimSpace(choice) {
		case "1":
			err = c.createUser(ctx)
		case "2":
			err = c.getUserByID(ctx)
		case "3":
			err = c.listUsers(ctx)
		case "4":
			err = c.updateUser(ctx)
		case "5":
			err = c.deleteUser(ctx)
		case "6":
			err = c.getUserByEmail(ctx)
		case "7":
			c.println("Exiting...")
			return nil
		default:
			c.println("Invalid choice")
		}
		if err != nil {
			c.println("Error: " + err.Error())
		}
	}
}

func (c *Console) printMenu() {
	c.println("")
	c.println("=== Menu ===")
	c.println("1. Create user")
	c.println("2. Find user by ID")
	c.println("3. List all users")
	c.println("4. Update user")
	c.println("5. Delete user")
	c.println("6. Find user by email")
	c.println("7. Exit")
	c.print("Choose an action: ")
}

func (c *Console) createUser(ctx context.Context) error {
	name := c.prompt("Enter name: ")
	email := c.prompt("Enter email: ")
	age, err := parseAge(c.prompt("Enter age: "))
	if err != nil {
		return err
	}

	u, err := c.svc.CreateUser(ctx, dto.CreateUserRequest{Name: name, Email: email, Age: age})
	if err != nil {
		return err
	}
	c.println(fmt.Sprintf("User created: ID=%d", u.ID))
	return nil
}

func (c *Console) getUserByID(ctx context.Context) error {
	id, err := parseID(c.prompt("Enter user ID: "))
	if err != nil {
		return err
	}
	u, found, err := c.svc.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	c.printFound(u, found)
	return nil
}

func (c *Console) getUserByEmail(ctx context.Context) error {
	email := c.prompt("Enter user email: ")
	u, found, err := c.svc.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	c.printFound(u, found)
	return nil
}

func (c *Console) listUsers(ctx context.Context) error {
	users, err := c.svc.GetAllUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		c.println("No users found")
		return nil
	}
	c.println(fmt.Sprintf("Users (%d):", len(users)))
	for _, u := range users {
		c.println("  " + describe(u))
	}
	return nil
}

func (c *Console) updateUser(ctx context.Context) error {
	id, err := parseID(c.prompt("Enter ID of the user to update: "))
	if err != nil {
		return err
	}
	name := c.prompt("Enter new name: ")
	email := c.prompt("Enter new email: ")
	age, err := parseAge(c.prompt("Enter new age: "))
	if err != nil {
		return err
	}

	u, err := c.svc.UpdateUser(ctx, dto.UpdateUserRequest{ID: id, Name: name, Email: email, Age: age})
	if err != nil {
		return err
	}
	c.println(fmt.Sprintf("User updated: ID=%d", u.ID))
	return nil
}

func (c *Console) deleteUser(ctx context.Context) error {
	id, err := parseID(c.prompt("Enter ID of the user to delete: "))
	if err != nil {
		return err
	}
	deleted, err := c.svc.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if deleted {
		c.println(fmt.Sprintf("User deleted: ID=%d", id))
	} else {
		c.println(fmt.Sprintf("User not found: ID=%d", id))
	}
	return nil
}

func (c *Console) printFound(u dto.UserResponse, found bool) {
	if !found {
		c.println("User not found")
		return
	}
	c.println("Found user: " + describe(u))
}

func describe(u dto.UserResponse) string {
	age := "null"
	if u.Age != nil {
		age = strconv.Itoa(*u.Age)
	}
	return fmt.Sprintf("ID=%d, Name=%s, Email=%s, Age=%s", u.ID, u.Name, u.Email, age)
}

// parseAge treats empty input as an unknown age.
func parseAge(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid age: %s", s)
	}
	return &v, nil
}

func parseID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ID: %s", s)
	}
	return id, nil
}

func (c *Console) prompt(label string) string {
	c.print(label)
	line, _ := c.readLine()
	return line
}

func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

func (c *Console) print(s string)   { _, _ = io.WriteString(c.out, s) }
func (c *Console) println(s string) { _, _ = io.WriteString(c.out, s+"\n") }
