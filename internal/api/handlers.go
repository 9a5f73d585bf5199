package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"marketingcrm/internal/auth"
	"marketingcrm/internal/core"
	"marketingcrm/internal/store"
)

const accessTokenCookie = "access_token"

type contextKey string

const userContextKey contextKey = "currentUser"

type APIHandler struct {
	chatService *core.ChatService
}

func NewAPIHandler(cs *core.ChatService) *APIHandler {
	return &APIHandler{chatService: cs}
}

// AuthMiddleware resolves the caller from the access_token cookie (or a
// bearer header) and injects the user into the request context. Handlers
// below it never see raw tokens.
func (h *APIHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := ""
		if cookie, err := r.Cookie(accessTokenCookie); err == nil {
			tokenString = cookie.Value
		} else if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if tokenString == "" {
			http.Error(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		username, err := auth.ValidateJWT(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		user, err := h.chatService.UserByUsername(username)
		if err != nil {
			log.Printf("Error resolving user %s: %v", username, err)
			http.Error(w, "Failed to process user identity", http.StatusInternalServerError)
			return
		}
		if user == nil {
			http.Error(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUser(r *http.Request) *store.User {
	return r.Context().Value(userContextKey).(*store.User)
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "Username, email and password are required", http.StatusBadRequest)
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password for user %s: %v", req.Username, err)
		http.Error(w, "Failed to process password", http.StatusInternalServerError)
		return
	}

	user, err := h.chatService.Register(req.Username, req.Email, hashedPassword)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			http.Error(w, "A user with that username or email already exists", http.StatusConflict)
			return
		}
		log.Printf("Error creating user %s: %v", req.Username, err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.chatService.UserByUsername(req.Username)
	if err != nil {
		log.Printf("Error getting user %s: %v", req.Username, err)
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateJWT(user.Username)
	if err != nil {
		log.Printf("Error generating JWT for user %s: %v", req.Username, err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	json.NewEncoder(w).Encode(map[string]string{"message": "Logged out"})
}

type CreateChatRequest struct {
	Name     string `json:"name"`
	ChatType string `json:"chat_type"`
}

func (h *APIHandler) CreateChatHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Chat name is required", http.StatusBadRequest)
		return
	}

	chat, err := h.chatService.CreateChat(user.ID, req.Name, req.ChatType)
	if err != nil {
		log.Printf("Error creating chat for user %d: %v", user.ID, err)
		http.Error(w, "Failed to create chat", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(chat)
}

func (h *APIHandler) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	chats, err := h.chatService.ListChats(user.ID)
	if err != nil {
		log.Printf("Error listing chats for user %d: %v", user.ID, err)
		http.Error(w, "Failed to list chats", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(chats)
}

type PostMessageRequest struct {
	Content string `json:"content"`
}

type PostMessageResponse struct {
	UserMessage *store.Message `json:"user_message"`
	BotResponse *store.Message `json:"bot_response"`
}

func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	chatID := chi.URLParam(r, "chatID")

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		http.Error(w, "Message content cannot be empty", http.StatusBadRequest)
		return
	}

	userMsg, botMsg, err := h.chatService.PostMessage(r.Context(), chatID, user.ID, req.Content)
	if err != nil {
		if errors.Is(err, core.ErrChatNotFound) {
			http.Error(w, "Chat not found", http.StatusNotFound)
		} else {
			log.Printf("Error posting message for user %d, chat %s: %v", user.ID, chatID, err)
			http.Error(w, "Failed to post message", http.StatusInternalServerError)
		}
		return
	}

	json.NewEncoder(w).Encode(PostMessageResponse{
		UserMessage: userMsg,
		BotResponse: botMsg,
	})
}

func (h *APIHandler) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	chatID := chi.URLParam(r, "chatID")

	messages, err := h.chatService.History(chatID, user.ID)
	if err != nil {
		if errors.Is(err, core.ErrChatNotFound) {
			http.Error(w, "Chat not found", http.StatusNotFound)
		} else {
			log.Printf("Error getting history for user %d, chat %s: %v", user.ID, chatID, err)
			http.Error(w, "Failed to get history", http.StatusInternalServerError)
		}
		return
	}
	if messages == nil {
		messages = []store.Message{}
	}

	json.NewEncoder(w).Encode(map[string][]store.Message{"history": messages})
}

func (h *APIHandler) ClearHistoryHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	chatID := chi.URLParam(r, "chatID")

	err := h.chatService.ClearHistory(chatID, user.ID)
	if err != nil {
		if errors.Is(err, core.ErrChatNotFound) {
			http.Error(w, "Chat not found", http.StatusNotFound)
		} else {
			log.Printf("Error clearing history for user %d, chat %s: %v", user.ID, chatID, err)
			http.Error(w, "Failed to clear history", http.StatusInternalServerError)
		}
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "History cleared"})
}
