package employee

import (
	common_api "go-los/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type EmployeeController struct {
	Service EmployeeService
}

func NewEmployeeController(service EmployeeService) *EmployeeController {
	return &EmployeeController{Service: service}
}

// Login godoc
// @Summary Log an employee in
// @Tags employees
// @Router /api/employees/login [post]
func (c *EmployeeController) Login(ctx *fiber.Ctx) error {
	var body struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		ActiveRole string `json:"activeRole"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	token, emp, err := c.Service.Login(ctx.UserContext(), body.Email, body.Password, body.ActiveRole)
	if err != nil {
		return common_api.Fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{"token": token, "employee": emp})
}

// Register godoc
// @Summary Register a new employee
// @Tags employees
// @Router /api/employees [post]
func (c *EmployeeController) Register(ctx *fiber.Ctx) error {
	var body struct {
		Employee
		Password string `json:"password"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.Register(ctx.UserContext(), &body.Employee, body.Password); err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Employee created successfully"})
}

// Get godoc
// @Summary Get an employee
// @Tags employees
// @Router /api/employees/{id} [get]
func (c *EmployeeController) Get(ctx *fiber.Ctx) error {
	emp, err := c.Service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(emp)
}
