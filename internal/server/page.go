package server

// indexHTML is the informational page served for GET / without a code
// parameter.
const indexHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>workert</title>
</head>
<body>
  <h1>workert</h1>
  <p>Type-check and run TypeScript in an isolated sandbox.</p>
  <p>Submit source text and define an exported async <code>main()</code> function:</p>
  <pre>
POST /
export async function main() {
  return 1 + 1;
}
  </pre>
  <p>Or pass it inline: <code>GET /?code=&lt;url-encoded source&gt;</code>,
     or as JSON: <code>POST / {"code": "..."}</code>.</p>
  <p>Responses are JSON: <code>{"success":true,"result":...}</code> on success,
     <code>{"success":false,"error":"...","diagnostics":[...]}</code> when the
     check fails.</p>
</body>
</html>
`
