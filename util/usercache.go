package util

import (
	"container/list"
	"os"
	"strconv"
	"sync"

	"gorm.io/gorm"
)

const defaultEmailCacheSize = 1000

// emailCache is a small LRU keyed by user ID. It keeps the email of recently
// active users available to the endpoint logger without a query per request.
type emailCache struct {
	mu    sync.Mutex
	order *list.List
	byID  map[uint]*list.Element
	limit int
}

type emailCacheEntry struct {
	userID uint
	email  string
}

var userEmails *emailCache

// InitUserEmailCache creates the cache. Non-positive capacities fall back to
// the default size.
func InitUserEmailCache(capacity int) {
	if capacity <= 0 {
		capacity = defaultEmailCacheSize
	}
	userEmails = &emailCache{
		order: list.New(),
		byID:  make(map[uint]*list.Element),
		limit: capacity,
	}
}

// InitUserEmailCacheFromEnv sizes the cache from USER_EMAIL_CACHE_SIZE.
func InitUserEmailCacheFromEnv() {
	size := 0
	if raw := os.Getenv("USER_EMAIL_CACHE_SIZE"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			size = n
		}
	}
	InitUserEmailCache(size)
}

// UserEmailCacheGet returns the cached email for a user, marking it as
// recently used.
func UserEmailCacheGet(userID uint) (string, bool) {
	if userEmails == nil {
		return "", false
	}
	userEmails.mu.Lock()
	defer userEmails.mu.Unlock()

	ele, ok := userEmails.byID[userID]
	if !ok {
		return "", false
	}
	userEmails.order.MoveToFront(ele)
	entry, ok := ele.Value.(emailCacheEntry)
	if !ok {
		return "", false
	}
	return entry.email, true
}

// UserEmailCacheSet stores or refreshes the email for a user, evicting the
// least recently used entry when the cache is full.
func UserEmailCacheSet(userID uint, email string) {
	if userEmails == nil {
		return
	}
	userEmails.mu.Lock()
	defer userEmails.mu.Unlock()

	if ele, ok := userEmails.byID[userID]; ok {
		userEmails.order.MoveToFront(ele)
		ele.Value = emailCacheEntry{userID: userID, email: email}
		return
	}

	userEmails.byID[userID] = userEmails.order.PushFront(emailCacheEntry{userID: userID, email: email})
	if userEmails.order.Len() <= userEmails.limit {
		return
	}
	tail := userEmails.order.Back()
	if tail == nil {
		return
	}
	if entry, ok := tail.Value.(emailCacheEntry); ok {
		delete(userEmails.byID, entry.userID)
	}
	userEmails.order.Remove(tail)
}

// GetUserEmail resolves a user's email through the cache, querying the users
// table on a miss and caching the result.
func GetUserEmail(db *gorm.DB, userID uint) string {
	if userID == 0 {
		return ""
	}
	if email, ok := UserEmailCacheGet(userID); ok {
		return email
	}
	if db == nil {
		return ""
	}
	var row struct{ Email string }
	if err := db.Table("users").Select("email").Where("id = ?", userID).Take(&row).Error; err != nil {
		return ""
	}
	if row.Email != "" {
		UserEmailCacheSet(userID, row.Email)
	}
	return row.Email
}
