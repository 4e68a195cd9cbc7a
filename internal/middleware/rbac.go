package middleware

import (
	common_models "go-los/internal/common/models"
	"go-los/internal/common/roles"
	"go-los/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequireRole gates a route to employees whose expanded role set covers one
// of the allowed roles. The active role on the token must itself be one the
// employee actually holds.
func RequireRole(allowed ...roles.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.EmployeeClaimsKey).(*utils.EmployeeClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		assigned := make([]roles.Role, 0, len(claims.Roles))
		for _, r := range claims.Roles {
			assigned = append(assigned, roles.Role(r))
		}

		if !roles.Expand(assigned)[roles.Role(claims.ActiveRole)] {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Active role not held by employee",
			})
		}

		if !roles.Allowed(assigned, allowed...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: role not permitted for this operation",
			})
		}

		return c.Next()
	}
}

// Actor builds the acting employee from the validated claims.
func Actor(c *fiber.Ctx) (common_models.Actor, error) {
	claims, ok := c.Locals(utils.EmployeeClaimsKey).(*utils.EmployeeClaims)
	if !ok {
		return common_models.Actor{}, fiber.ErrUnauthorized
	}
	oid, err := primitive.ObjectIDFromHex(claims.EmployeeID)
	if err != nil {
		return common_models.Actor{}, fiber.ErrUnauthorized
	}
	return common_models.Actor{
		ID:   oid,
		Name: claims.Name,
		Role: roles.Role(claims.ActiveRole),
	}, nil
}
