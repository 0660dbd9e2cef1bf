package server

import (
	"html/template"
	"net/http"
)

// TestPageHandler serves a small browser page that exercises the token
// flow: fetch a token, reuse it, validate the session and call the
// protected endpoint.
func (s *Server) TestPageHandler() http.HandlerFunc {
	tmpl, err := template.New("test").Parse(testPageHTML)
	if err != nil {
		panic("Failed to parse test page template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]interface{}{
			"AppName": s.config.GetAppName(),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		_ = tmpl.Execute(w, data)
	}
}

const testPageHTML = `<!DOCTYPE html>
<html>
<head>
    <title>{{.AppName}} - Token Test</title>
    <style>
        body { font-family: sans-serif; max-width: 900px; margin: 50px auto; padding: 20px; background: #f5f5f5; }
        .container { background: white; padding: 30px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #333; border-bottom: 3px solid #4CAF50; padding-bottom: 10px; }
        button { background: #4CAF50; color: white; border: none; padding: 12px 24px; margin: 10px 5px; border-radius: 4px; cursor: pointer; font-size: 16px; }
        button:disabled { background: #ccc; cursor: not-allowed; }
        .output { background: #f9f9f9; border: 1px solid #ddd; border-radius: 4px; padding: 15px; margin: 15px 0; white-space: pre-wrap; font-family: monospace; font-size: 12px; max-height: 400px; overflow-y: auto; }
        input { width: 100%; padding: 10px; margin: 10px 0; border: 1px solid #ddd; border-radius: 4px; box-sizing: border-box; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.AppName}} Token Test</h1>

        <h2>Step 1: Get Token</h2>
        <button onclick="getToken()">Get New Token</button>
        <button id="reuseBtn" onclick="reuseToken()" disabled>Reuse Existing Token</button>

        <h2>Step 2: Validate Session</h2>
        <button id="validateBtn" onclick="validateSession()" disabled>Validate Session</button>

        <h2>Step 3: Send Authenticated Request</h2>
        <input type="text" id="messageInput" value="Hello from the test page!">
        <button onclick="sendProtected()">Send to Protected Endpoint</button>

        <h2>Response:</h2>
        <div id="output" class="output">Click "Get New Token" to start...</div>
    </div>

    <script>
        let jwtToken = null;
        let sessionId = null;

        function log(message) {
            const output = document.getElementById('output');
            output.textContent += '[' + new Date().toLocaleTimeString() + '] ' + message + '\n\n';
            output.scrollTop = output.scrollHeight;
        }

        function enableButtons() {
            document.getElementById('validateBtn').disabled = false;
            document.getElementById('reuseBtn').disabled = false;
        }

        async function getToken() {
            const response = await fetch('/app');
            const data = await response.json();
            jwtToken = data.token;
            sessionId = data.session;
            log(JSON.stringify(data, null, 2));
            enableButtons();
        }

        async function reuseToken() {
            const response = await fetch('/app', {
                headers: { 'Authorization': 'Bearer ' + jwtToken }
            });
            const data = await response.json();
            jwtToken = data.token;
            sessionId = data.session;
            log((data.reused ? 'Token reused.' : 'New token generated.') + '\n' + JSON.stringify(data, null, 2));
        }

        async function validateSession() {
            const response = await fetch('/validate', {
                method: 'POST',
                headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify({
                    session: sessionId,
                    token: jwtToken,
                    client_info: {
                        browser: navigator.userAgent,
                        language: navigator.language,
                        timestamp: new Date().toISOString()
                    }
                })
            });
            log(JSON.stringify(await response.json(), null, 2));
        }

        async function sendProtected() {
            const headers = { 'Content-Type': 'application/json' };
            if (jwtToken) {
                headers['Authorization'] = 'Bearer ' + jwtToken;
            }
            const response = await fetch('/api/protected', {
                method: 'POST',
                headers: headers,
                body: JSON.stringify({
                    message: document.getElementById('messageInput').value,
                    timestamp: new Date().toISOString()
                })
            });
            log('Status: ' + response.status + '\n' + JSON.stringify(await response.json(), null, 2));
        }
    </script>
</body>
</html>
`
