package controllers

import (
	"context"

	"boardai/boardai/sources/psql/dao"
	"boardai/boardai/sources/psql/models"
)

type UserController struct {
	dao *dao.UserDAO
}

func NewUserController(dao *dao.UserDAO) *UserController {
	return &UserController{dao: dao}
}

// GetUser returns nil, nil for an unknown id.
func (c *UserController) GetUser(ctx context.Context, id int) (*models.User, error) {
	return c.dao.GetUserByID(ctx, id)
}
