package memory

import (
	"github.com/dmitrijs2005/imprint/internal/server/repositories/boards"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/comments"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/managers"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/messages"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/posts"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/reports"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/users"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/verifications"
)

var (
	_ users.Repository         = (*UsersRepository)(nil)
	_ boards.Repository        = (*BoardsRepository)(nil)
	_ managers.Repository      = (*ManagersRepository)(nil)
	_ posts.Repository         = (*PostsRepository)(nil)
	_ comments.Repository      = (*CommentsRepository)(nil)
	_ reports.Repository       = (*ReportsRepository)(nil)
	_ messages.Repository      = (*MessagesRepository)(nil)
	_ verifications.Repository = (*VerificationsRepository)(nil)
	_ refreshtokens.Repository = (*RefreshTokensRepository)(nil)
)
