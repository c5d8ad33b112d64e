package handlers

import "github.com/gin-gonic/gin"

// Set bundles every API handler so the server and the integration suite
// mount identical routes.
type Set struct {
	Wallet       *WalletHandler
	Category     *CategoryHandler
	Transaction  *TransactionHandler
	Notification *NotificationHandler
	Card         *CardHandler
	Preferences  *PreferencesHandler
	Stats        *StatsHandler
}

// Register mounts the protected routes on rg. The caller attaches auth.
func (s *Set) Register(rg *gin.RouterGroup) {
	wallets := rg.Group("/wallets")
	wallets.POST("", s.Wallet.CreateWallet)
	wallets.GET("", s.Wallet.GetUserWallets)
	wallets.GET("/:id", s.Wallet.GetWalletByID)
	wallets.PUT("/:id", s.Wallet.UpdateWallet)
	wallets.PUT("/:id/balance", s.Wallet.SetWalletBalance)
	wallets.DELETE("/:id", s.Wallet.DeleteWallet)
	wallets.GET("/:id/transactions", s.Transaction.GetWalletTransactions)

	categories := rg.Group("/categories")
	categories.POST("", s.Category.CreateCategory)
	categories.GET("", s.Category.GetUserCategories)
	categories.GET("/:id", s.Category.GetCategoryByID)
	categories.PUT("/:id", s.Category.UpdateCategory)
	categories.DELETE("/:id", s.Category.DeleteCategory)

	transactions := rg.Group("/transactions")
	transactions.POST("", s.Transaction.CreateTransaction)
	transactions.GET("", s.Transaction.GetUserTransactions)
	transactions.POST("/transfer", s.Transaction.CreateTransfer)
	transactions.GET("/:id", s.Transaction.GetTransactionByID)
	transactions.PUT("/:id", s.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", s.Transaction.DeleteTransaction)

	notifications := rg.Group("/notifications")
	notifications.GET("", s.Notification.GetNotifications)
	notifications.POST("/read-all", s.Notification.MarkAllRead)
	notifications.POST("/:id/read", s.Notification.MarkRead)
	notifications.POST("/:id/dismiss", s.Notification.Dismiss)

	cards := rg.Group("/cards")
	cards.POST("", s.Card.CreateCard)
	cards.GET("", s.Card.GetUserCards)
	cards.GET("/:id", s.Card.GetCardByID)
	cards.PUT("/:id", s.Card.UpdateCard)
	cards.DELETE("/:id", s.Card.DeleteCard)

	rg.GET("/preferences", s.Preferences.GetPreferences)
	rg.PATCH("/preferences", s.Preferences.UpdatePreferences)

	stats := rg.Group("/stats")
	stats.GET("/summary", s.Stats.GetSummary)
	stats.GET("/monthly", s.Stats.GetMonthlySummary)
}
