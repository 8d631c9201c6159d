package rundeck

import "time"

// JSON wire shapes of the API endpoints the client touches.

type importResult struct {
	Succeeded []importedJob `json:"succeeded"`
	Failed    []importedJob `json:"failed"`
}

type importedJob struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Permalink string `json:"permalink"`
	Error     string `json:"error"`
}

type executionEntry struct {
	ID          int64         `json:"id"`
	Status      string        `json:"status"`
	Permalink   string        `json:"permalink"`
	Project     string        `json:"project"`
	Job         *executionJob `json:"job"`
	DateStarted *wireDate     `json:"date-started"`
	DateEnded   *wireDate     `json:"date-ended"`
}

type executionJob struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type wireDate struct {
	Date time.Time `json:"date"`
}

type outputResult struct {
	Entries []outputEntry `json:"entries"`
}

type outputEntry struct {
	Log string `json:"log"`
}

type systemInfo struct {
	System struct {
		Executions struct {
			Active        bool   `json:"active"`
			ExecutionMode string `json:"executionMode"`
		} `json:"executions"`
		Rundeck struct {
			Version    string `json:"version"`
			APIVersion int    `json:"apiversion"`
		} `json:"rundeck"`
	} `json:"system"`
}

type jobListEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Group       string `json:"group"`
	Project     string `json:"project"`
	Description string `json:"description"`
}
