package server

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>
    *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }

    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      flex-direction: column;
      align-items: center;
      min-height: 100vh;
      padding: 1rem;
      background-color: #f8f9fa;
      color: #212529;
    }

    @media (prefers-color-scheme: dark) {
      body { background-color: #1a1a2e; color: #e0e0e0; }
      .controls button, .controls a { background-color: #2d2d44; color: #e0e0e0; border-color: #444; }
    }

    h1 { margin: 1rem 0 0.25rem; font-size: 1.4rem; font-weight: 600; }
    .source { margin-bottom: 1rem; font-size: 0.85rem; opacity: 0.7; }

    .controls {
      display: flex;
      gap: 0.5rem;
      margin-bottom: 1rem;
      flex-wrap: wrap;
      justify-content: center;
    }

    .controls button, .controls a {
      padding: 0.4rem 0.9rem;
      font-size: 0.9rem;
      border: 1px solid #ccc;
      border-radius: 6px;
      background-color: #ffffff;
      color: #212529;
      cursor: pointer;
      text-decoration: none;
    }

    .diagram-viewport { width: 100%; overflow: auto; flex: 1; display: flex; justify-content: center; padding: 1rem; }
    .diagram-container { width: 100%; transform-origin: top center; transition: transform 0.2s ease; }

    .mermaid svg g.node.interfaceStyle > g:first-child > path:first-child { fill: #2374ab !important; }
    .mermaid svg g.node.interfaceStyle .nodeLabel { color: #fff !important; }
    .mermaid svg g.node.implStyle > g:first-child > path:first-child { fill: #4a9c6d !important; }
    .mermaid svg g.node.implStyle .nodeLabel { color: #fff !important; }

    pre.demo { margin-top: 1rem; padding: 0.75rem 1rem; border: 1px solid #ccc; border-radius: 6px; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  {{if .Source}}<div class="source">{{.Source}}</div>{{end}}

  <div class="controls">
    <button id="zoom-in" title="Zoom In">+ Zoom In</button>
    <button id="zoom-out" title="Zoom Out">- Zoom Out</button>
    <button id="zoom-reset" title="Reset Zoom">Reset</button>
    <button id="copy-src" title="Copy Mermaid Source">Copy Mermaid Source</button>
    {{range .Formats}}<a href="/api/export?format={{.Value}}" title="{{.Description}}">{{.Label}}</a>
    {{end}}
  </div>

  <div class="diagram-viewport">
    <div class="diagram-container" id="diagram-container">
      <pre class="mermaid">{{.Mermaid}}</pre>
    </div>
  </div>

  <pre class="demo">{{.Demo}}</pre>

  <script src="https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.min.js"></script>
  <script>
    mermaid.initialize({ startOnLoad: true, theme: 'base' });

    (function() {
      var scale = 1;
      var step = 0.15;
      var container = document.getElementById('diagram-container');

      function applyZoom() {
        container.style.transform = 'scale(' + scale + ')';
      }

      document.getElementById('zoom-in').addEventListener('click', function() {
        scale = Math.min(10, scale + step);
        applyZoom();
      });
      document.getElementById('zoom-out').addEventListener('click', function() {
        scale = Math.max(0.1, scale - step);
        applyZoom();
      });
      document.getElementById('zoom-reset').addEventListener('click', function() {
        scale = 1;
        applyZoom();
      });

      document.getElementById('copy-src').addEventListener('click', function() {
        var src = {{.Mermaid}};
        navigator.clipboard.writeText(src).then(function() {
          var btn = document.getElementById('copy-src');
          var orig = btn.textContent;
          btn.textContent = 'Copied!';
          setTimeout(function() { btn.textContent = orig; }, 1500);
        });
      });
    })();
  </script>
</body>
</html>
`
