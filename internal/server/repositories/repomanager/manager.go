// Package repomanager vends repositories bound to a dbx.DBTX, so services
// can run the same repository code on a pool or inside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/habitkeeper/internal/dbx"
	"github.com/dmitrijs2005/habitkeeper/internal/server/repositories/completions"
	"github.com/dmitrijs2005/habitkeeper/internal/server/repositories/habits"
	"github.com/dmitrijs2005/habitkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/habitkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Habits(db dbx.DBTX) habits.Repository
	Completions(db dbx.DBTX) completions.Repository
}
