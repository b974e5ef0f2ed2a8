// Package policy decides who may perform which action. Reads are open to
// everyone, writes need an authenticated caller and recipe mutations are
// reserved to the recipe author.
package policy

import (
	"fmt"
	"strconv"

	"foodgram/domain"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

type (
	Action string
	Role   string
)

const (
	ActionList                 Action = "list"
	ActionRetrieve             Action = "retrieve"
	ActionCreate               Action = "create"
	ActionUpdate               Action = "update"
	ActionDelete               Action = "delete"
	ActionFavorite             Action = "favorite"
	ActionShoppingCart         Action = "shopping_cart"
	ActionDownloadShoppingCart Action = "download_shopping_cart"
	ActionGetLink              Action = "get_link"
	ActionResolveLink          Action = "resolve_link"
	ActionSubscribe            Action = "subscribe"
	ActionSubscriptions        Action = "subscriptions"
	ActionMe                   Action = "me"
	ActionAvatar               Action = "avatar"
)

const (
	RoleAnyone Role = "anyone"
	RoleUser   Role = "user"
	RoleAuthor Role = "author"
)

// Actions maps every action to the least privileged role allowed to run it.
var Actions = map[Action]Role{
	ActionList:                 RoleAnyone,
	ActionRetrieve:             RoleAnyone,
	ActionGetLink:              RoleAnyone,
	ActionResolveLink:          RoleAnyone,
	ActionCreate:               RoleUser,
	ActionFavorite:             RoleUser,
	ActionShoppingCart:         RoleUser,
	ActionDownloadShoppingCart: RoleUser,
	ActionSubscribe:            RoleUser,
	ActionSubscriptions:        RoleUser,
	ActionMe:                   RoleUser,
	ActionAvatar:               RoleUser,
	ActionUpdate:               RoleAuthor,
	ActionDelete:               RoleAuthor,
}

const modelText = `
[request_definition]
r = sub, owner, act

[policy_definition]
p = role, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.act == p.act && (p.role == "anyone" || (p.role == "user" && r.sub != "") || (p.role == "author" && r.sub != "" && r.sub == r.owner))
`

type (
	Policy interface {
		// RoleOf returns the role required by action.
		RoleOf(action Action) (Role, error)
		// Authorize checks caller against action on an object owned by ownerID;
		// ownerID is ignored for actions that are not author only.
		Authorize(caller domain.Identity, action Action, ownerID uint) error
	}

	casbinPolicy struct {
		enforcer *casbin.SyncedEnforcer
	}
)

func NewPolicy() (Policy, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create policy enforcer: %w", err)
	}

	for action, role := range Actions {
		if _, err := enforcer.AddPolicy(string(role), string(action)); err != nil {
			return nil, fmt.Errorf("failed to add policy %s/%s: %w", role, action, err)
		}
	}

	return &casbinPolicy{enforcer: enforcer}, nil
}

func (p *casbinPolicy) RoleOf(action Action) (Role, error) {
	role, ok := Actions[action]
	if !ok {
		return "", fmt.Errorf("unknown action %q", action)
	}
	return role, nil
}

func (p *casbinPolicy) Authorize(caller domain.Identity, action Action, ownerID uint) error {
	if _, err := p.RoleOf(action); err != nil {
		return err
	}

	allowed, err := p.enforcer.Enforce(subject(caller), owner(ownerID), string(action))
	if err != nil {
		return fmt.Errorf("failed to enforce %s: %w", action, err)
	}
	if allowed {
		return nil
	}
	if !caller.Authenticated {
		return domain.ErrUnauthenticated
	}
	return domain.ErrPermissionDenied
}

func subject(caller domain.Identity) string {
	if !caller.Authenticated {
		return ""
	}
	return strconv.FormatUint(uint64(caller.UserID), 10)
}

func owner(id uint) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(id), 10)
}
