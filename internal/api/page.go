package api

import (
	"html/template"
	"net/http"

	"github.com/orderlyhq/orderly-starter/internal/logging"
)

var pageTemplate = template.Must(template.New("dashboard").Parse(pageHTML))

type pageData struct {
	Shop string
}

func renderPage(w http.ResponseWriter, shop string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, pageData{Shop: shop}); err != nil {
		logger := logging.L()
		logger.Error().Err(err).Msg("failed to render dashboard page")
	}
}

const pageHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Orderly Settings</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 0; background: #f6f6f7; color: #202223; }
  .wrap { max-width: 560px; margin: 2rem auto; padding: 0 1rem; }
  .card { background: #fff; border: 1px solid #e1e3e5; border-radius: 8px; padding: 1.5rem; }
  h1 { font-size: 1.25rem; margin: 0 0 0.25rem; }
  .shop { color: #6d7175; font-size: 0.85rem; margin-bottom: 1.25rem; }
  label { display: block; font-weight: 600; margin: 1rem 0 0.25rem; }
  input[type="text"] { width: 100%; box-sizing: border-box; padding: 0.5rem; border: 1px solid #c9cccf; border-radius: 4px; }
  .flag { display: flex; align-items: center; gap: 0.5rem; margin: 0.5rem 0; font-weight: 400; }
  button { margin-top: 1.25rem; background: #16a34a; color: #fff; border: 0; border-radius: 4px; padding: 0.6rem 1.2rem; font-size: 1rem; cursor: pointer; }
  #status { margin-top: 0.75rem; font-size: 0.85rem; color: #6d7175; min-height: 1.2em; }
</style>
</head>
<body>
<div class="wrap">
  <div class="card">
    <h1>Notification settings</h1>
    <div class="shop">{{if .Shop}}{{.Shop}}{{else}}no shop selected{{end}}</div>
    <form id="settings-form">
      <label for="brandName">Brand name</label>
      <input type="text" id="brandName" maxlength="40" autocomplete="off">
      <label for="accent">Accent color</label>
      <input type="color" id="accent" value="#16a34a">
      <label>Notify customers when an order is</label>
      <label class="flag"><input type="checkbox" id="notifyDelay"> delayed</label>
      <label class="flag"><input type="checkbox" id="notifyOutForDelivery"> out for delivery</label>
      <label class="flag"><input type="checkbox" id="notifyDelivered"> delivered</label>
      <button type="submit">Save</button>
    </form>
    <div id="status"></div>
  </div>
</div>
<script>
(function () {
  var shop = new URLSearchParams(location.search).get("shop") || "";
  var form = document.getElementById("settings-form");
  var statusEl = document.getElementById("status");

  function setStatus(text) { statusEl.textContent = text; }

  function fill(s) {
    document.getElementById("brandName").value = s.brandName;
    document.getElementById("accent").value = s.accent;
    document.getElementById("notifyDelay").checked = s.notifyDelay;
    document.getElementById("notifyOutForDelivery").checked = s.notifyOutForDelivery;
    document.getElementById("notifyDelivered").checked = s.notifyDelivered;
  }

  function load() {
    fetch("/api/settings?shop=" + encodeURIComponent(shop))
      .then(function (res) { return res.json(); })
      .then(function (data) {
        if (data.ok) { fill(data.settings); } else { setStatus(data.error); }
      })
      .catch(function () { setStatus("Failed to load settings"); });
  }

  form.addEventListener("submit", function (event) {
    event.preventDefault();
    var body = {
      brandName: document.getElementById("brandName").value,
      accent: document.getElementById("accent").value,
      notifyDelay: document.getElementById("notifyDelay").checked,
      notifyOutForDelivery: document.getElementById("notifyOutForDelivery").checked,
      notifyDelivered: document.getElementById("notifyDelivered").checked
    };
    fetch("/api/settings?shop=" + encodeURIComponent(shop), {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify(body)
    })
      .then(function (res) { return res.json(); })
      .then(function (data) {
        if (data.ok) { fill(data.settings); setStatus("Saved"); } else { setStatus(data.error); }
      })
      .catch(function () { setStatus("Failed to save settings"); });
  });

  function subscribe() {
    var scheme = location.protocol === "https:" ? "wss" : "ws";
    var ws = new WebSocket(scheme + "://" + location.host + "/api/settings/stream?shop=" + encodeURIComponent(shop));
    ws.onmessage = function (event) { fill(JSON.parse(event.data)); };
  }

  if (!shop) {
    setStatus("Missing shop parameter");
    return;
  }
  load();
  subscribe();
})();
</script>
</body>
</html>
`
