package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cwsops/liveperson-cli/internal/validation"
)

// UsersAPIVersion is the version of the users configuration API.
const UsersAPIVersion = "4"

const usersAction = "configuration/le-users/users"

// List returns every user of the account.
func (s UsersService) List(ctx context.Context) (Result, error) {
	return listUsers(ctx, s)
}

func listUsers(ctx context.Context, r Requester) (Result, error) {
	ep := endpoint{action: usersAction, version: UsersAPIVersion}
	return callBearer(ctx, r, DomainAccountConfigRead, http.MethodGet, ep, nil), nil
}

// Get returns a single user.
func (s UsersService) Get(ctx context.Context, id string) (Result, error) {
	return getUser(ctx, s, id)
}

func getUser(ctx context.Context, r Requester, id string) (Result, error) {
	if err := validation.ValidateRequired("user id", id); err != nil {
		return Result{}, err
	}
	ep := endpoint{action: usersAction, context: url.PathEscape(id), version: UsersAPIVersion}
	return callBearer(ctx, r, DomainAccountConfigRead, http.MethodGet, ep, nil), nil
}

// DecodeUsers decodes a successful List result.
func DecodeUsers(res Result) ([]User, error) {
	var users []User
	if err := res.Decode(&users); err != nil {
		return nil, err
	}
	return users, nil
}
