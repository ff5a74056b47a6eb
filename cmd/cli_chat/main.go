package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"chat-exchange/internal/domain"
)

// Cliente de terminal para el API de exchanges. Juega el rol del front end:
// genera y persiste localmente un token de identidad opaco (no es una
// credencial, solo particiona el historial) y envía la conversación completa
// en cada turno.

const identityFileName = ".chat_exchange_id"

func main() {
	_ = godotenv.Load()

	baseURL := os.Getenv("CHAT_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	ownerID, err := loadOrCreateIdentity()
	if err != nil {
		log.Fatalf("identidad local: %v", err)
	}

	client := &apiClient{
		baseURL: baseURL,
		ownerID: ownerID,
		http:    &http.Client{Timeout: 60 * time.Second},
	}

	fmt.Println("===== Chat =====")
	fmt.Printf("Identidad local: %s\n", ownerID)
	fmt.Println("Comandos: /history para ver el historial, /exit para salir.")

	reader := bufio.NewReader(os.Stdin)
	var conversation []domain.Message

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)

		switch {
		case line == "":
			continue
		case line == "/exit":
			return
		case line == "/history":
			printHistory(client)
			continue
		}

		conversation = append(conversation, domain.Message{
			Role:    domain.RoleUser,
			Content: line,
		})

		ex, err := client.submit(conversation)
		if err != nil {
			fmt.Printf("[error] %v\n", err)
			continue
		}

		conversation = append(conversation, domain.Message{
			Role:    domain.RoleAssistant,
			Content: ex.Response,
		})
		fmt.Println(ex.Response)
	}
}

// loadOrCreateIdentity lee el token local o genera uno nuevo y lo persiste.
// Equivalente al localStorage del navegador: una identidad por home del usuario.
func loadOrCreateIdentity() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(home, identityFileName)

	data, err := os.ReadFile(path)
	if err == nil {
		token := strings.TrimSpace(string(data))
		if token != "" {
			return token, nil
		}
	} else if !os.IsNotExist(err) {
		return "", err
	}

	token := uuid.NewString()
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return "", err
	}
	return token, nil
}

func printHistory(client *apiClient) {
	history, err := client.history()
	if err != nil {
		fmt.Printf("[error] %v\n", err)
		return
	}
	if len(history) == 0 {
		fmt.Println("Sin historial todavía.")
		return
	}
	for _, ex := range history {
		fmt.Printf("[%s]\n  yo: %s\n  asistente: %s\n",
			ex.CreatedAt.Local().Format("2006-01-02 15:04"), ex.Prompt, ex.Response)
	}
}

type apiClient struct {
	baseURL string
	ownerID string
	http    *http.Client
}

func (c *apiClient) submit(messages []domain.Message) (domain.Exchange, error) {
	payload, err := json.Marshal(map[string]any{
		"messages": messages,
		"ownerId":  c.ownerID,
	})
	if err != nil {
		return domain.Exchange{}, err
	}

	resp, err := c.http.Post(c.baseURL+"/exchanges", "application/json", bytes.NewReader(payload))
	if err != nil {
		return domain.Exchange{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Exchange{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return domain.Exchange{}, apiError(body, resp.StatusCode)
	}

	var ex domain.Exchange
	if err := json.Unmarshal(body, &ex); err != nil {
		return domain.Exchange{}, err
	}
	return ex, nil
}

func (c *apiClient) history() ([]domain.Exchange, error) {
	resp, err := c.http.Get(c.baseURL + "/exchanges?ownerId=" + c.ownerID)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(body, resp.StatusCode)
	}

	var history []domain.Exchange
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// apiError extrae el campo error del payload si existe; si no, muestra el
// body completo como fallback.
func apiError(body []byte, status int) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return fmt.Errorf("api %d: %s", status, payload.Error)
	}
	return fmt.Errorf("api %d: %s", status, strings.TrimSpace(string(body)))
}
