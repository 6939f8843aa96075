package messages

import "github.com/astrovine/horizon/internal/api"

// Tab identifies a post-list tab.
type Tab string

const (
	TabHome      Tab = "home"
	TabFollowing Tab = "following"
	TabExplore   Tab = "explore"
	TabMine      Tab = "mine"
)

// Toast severity variants.
type ToastVariant int

const (
	ToastDefault ToastVariant = iota
	ToastSuccess
	ToastError
)

// View transition messages.
type (
	OpenPostMsg     struct{ PostID int }
	GoBackMsg       struct{}
	SwitchTabMsg    struct{ Tab Tab }
	OpenLoginMsg    struct{}
	OpenRegisterMsg struct{}
	OpenComposeMsg  struct{ Edit *api.Post }
	OpenReplyMsg    struct {
		PostID   int
		ParentID int // 0 for a top-level comment
	}
	OpenUserMsg    struct{ UserID int }
	OpenProfileMsg struct{}
)

// Data messages.
type (
	PostsLoadedMsg struct {
		Tab     Tab
		Append  bool
		Posts   []api.Post
		HasMore bool
		Err     error
	}

	PostDetailLoadedMsg struct {
		PostID   int
		Post     *api.Post
		Comments []api.Comment
		Likes    map[int]int
		Err      error
	}

	LoginResultMsg struct {
		Err error
	}

	PostCreatedMsg struct {
		Post *api.Post
		Err  error
	}

	PostUpdatedMsg struct {
		Post *api.Post
		Err  error
	}

	PostDeletedMsg struct {
		PostID int
		Err    error
	}

	VoteResultMsg struct {
		PostID int
		Err    error
	}

	CommentLikeResultMsg struct {
		PostID    int
		CommentID int
		Err       error
	}

	CommentAddedMsg struct {
		PostID  int
		Comment *api.Comment
		Err     error
	}

	UserLoadedMsg struct {
		UserID  int
		Profile *api.Profile
		Posts   []api.Post
		Err     error
	}

	FollowResultMsg struct {
		UserID    int
		Following bool
		Err       error
	}

	ProfileSavedMsg struct {
		Profile *api.Profile
		Err     error
	}

	SessionRestoredMsg struct{}

	ForceLogoutMsg struct{}

	ToastMsg struct {
		Text    string
		Variant ToastVariant
	}

	StatusMsg struct {
		Text string
	}
)
