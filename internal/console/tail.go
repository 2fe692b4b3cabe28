package console

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"github.com/agbruneau/EventBridge/pkg/models"
)

// Intervalles de surveillance des fichiers
const (
	FileCheckInterval = 1 * time.Second
	FilePollInterval  = 200 * time.Millisecond
)

// WaitForFile attend que le fichier spécifié existe et retourne un descripteur ouvert.
// Retourne nil si stop est fermé avant.
func WaitForFile(filename string, stop <-chan struct{}) *os.File {
	for {
		file, err := os.Open(filename)
		if err == nil {
			return file
		}
		select {
		case <-stop:
			return nil
		case <-time.After(FileCheckInterval):
		}
	}
}

// readNewLines lit les nouvelles lignes du fichier à partir de currentPos et les passe à handle.
func readNewLines(file *os.File, currentPos int64, handle func(line string)) int64 {
	if _, err := file.Seek(currentPos, io.SeekStart); err != nil {
		return currentPos
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		handle(line)
	}

	if err := scanner.Err(); err != nil {
		return currentPos
	}

	newPos, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return currentPos
	}
	return newPos
}

// FollowFile surveille un fichier en continu, similaire à `tail -f`, jusqu'à la fermeture de stop.
// Un fichier tronqué est relu depuis le début.
func FollowFile(filename string, handle func(line string), stop <-chan struct{}) {
	file := WaitForFile(filename, stop)
	if file == nil {
		return
	}
	defer func() { file.Close() }()
	var currentPos int64

	for {
		select {
		case <-stop:
			return
		default:
		}

		stat, err := os.Stat(filename)
		if err != nil {
			file.Close()
			if file = WaitForFile(filename, stop); file == nil {
				return
			}
			currentPos = 0
			continue
		}

		if stat.Size() < currentPos {
			currentPos = 0
		}

		if currentPos < stat.Size() {
			currentPos = readNewLines(file, currentPos, handle)
			continue
		}

		select {
		case <-stop:
			return
		case <-time.After(FilePollInterval):
		}
	}
}

// LogLineHandler décode une ligne du log structuré et la transmet à c.
func LogLineHandler(c *Console) func(string) {
	return func(line string) {
		var entry models.LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err == nil {
			c.ProcessLog(entry)
		}
	}
}

// EnvelopeLineHandler décode une ligne de la piste d'audit et la transmet à c.
func EnvelopeLineHandler(c *Console) func(string) {
	return func(line string) {
		var entry models.EventEntry
		if err := json.Unmarshal([]byte(line), &entry); err == nil {
			c.ProcessEnvelope(entry)
		}
	}
}
