// Package server serves the web dashboard.
package server

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root {
  --bg: #fff; --fg: #1a1a2e; --card-bg: #f8f9fa; --border: #dee2e6;
  --muted: #6c757d; --error: #dc3545; --accent: #0d6efd;
}
@media (prefers-color-scheme: dark) {
  :root {
    --bg: #1a1a2e; --fg: #e9ecef; --card-bg: #16213e; --border: #495057;
    --muted: #adb5bd; --error: #f55; --accent: #5b9aff;
  }
}
* { box-sizing: border-box; margin: 0; padding: 0; }
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background: var(--bg); color: var(--fg); line-height: 1.5; padding: 1rem; max-width: 1100px; margin: 0 auto; }
header { display: flex; align-items: baseline; justify-content: space-between; margin-bottom: 1.5rem; }
header h1 { font-size: 1.5rem; }
header p { color: var(--muted); font-size: .875rem; }
button { background: var(--accent); color: #fff; border: 0; border-radius: 6px; padding: .4rem .9rem; cursor: pointer; }
section { background: var(--card-bg); border: 1px solid var(--border); border-radius: 8px; padding: 1rem; margin-bottom: 1rem; }
section h3 { font-size: 1rem; margin-bottom: .5rem; }
.chart h4 { font-size: .875rem; color: var(--muted); margin-bottom: .25rem; }
.empty { color: var(--muted); font-size: .875rem; }
#error { color: var(--error); font-weight: 600; margin-bottom: 1rem; }
.hidden { display: none; }
</style>
</head>
<body>
<header>
<div>
<h1>{{.Title}}</h1>
<p>Log: <code>{{.LogPath}}</code> &middot; <span id="rows">{{.Rows}}</span> emails<span id="skipped">{{if .Skipped}}, {{.Skipped}} rows skipped{{end}}</span></p>
</div>
<button id="refresh" type="button">Refresh</button>
</header>
<div id="error"{{if not .Error}} class="hidden"{{end}}>{{.Error}}</div>
{{range .Sections}}
<section>
<h3>{{.Heading}}</h3>
<div class="chart" id="{{.ID}}"></div>
</section>
{{end}}
<script>
var chartData = {{json .Figures}};
var palette = ["#0d6efd","#6f42c1","#20c997","#fd7e14","#e83e8c","#17a2b8","#6c757d","#28a745"];

function svgEl(tag, attrs) {
  var el = document.createElementNS("http://www.w3.org/2000/svg", tag);
  for (var k in attrs) el.setAttribute(k, attrs[k]);
  return el;
}

function textEl(attrs, text) {
  var t = svgEl("text", attrs);
  t.textContent = text;
  return t;
}

function fmt(v) {
  return Math.round(v * 100) / 100;
}

function clip(s) {
  return s.length > 28 ? s.slice(0, 26) + "..." : s;
}

function renderPie(c, fig) {
  var total = fig.values.reduce(function(a, b) { return a + b; }, 0);
  if (!total) return false;
  var h = Math.max(180, fig.labels.length * 18 + 20);
  var svg = svgEl("svg", {width: "100%", viewBox: "0 0 460 " + h});
  var cx = 90, cy = 90, r = 80, angle = -Math.PI / 2;
  for (var i = 0; i < fig.values.length; i++) {
    var slice = (fig.values[i] / total) * Math.PI * 2;
    var color = palette[i % palette.length];
    if (fig.values.length === 1) {
      svg.appendChild(svgEl("circle", {cx: cx, cy: cy, r: r, fill: color}));
      break;
    }
    var x1 = cx + r * Math.cos(angle), y1 = cy + r * Math.sin(angle);
    angle += slice;
    var x2 = cx + r * Math.cos(angle), y2 = cy + r * Math.sin(angle);
    var large = slice > Math.PI ? 1 : 0;
    var d = "M" + cx + "," + cy + " L" + x1 + "," + y1 + " A" + r + "," + r + " 0 " + large + ",1 " + x2 + "," + y2 + " Z";
    svg.appendChild(svgEl("path", {d: d, fill: color}));
  }
  for (var j = 0; j < fig.labels.length; j++) {
    var ly = 16 + j * 18;
    var pct = Math.round(fig.values[j] / total * 1000) / 10;
    svg.appendChild(svgEl("rect", {x: 200, y: ly - 9, width: 10, height: 10, fill: palette[j % palette.length], rx: 2}));
    svg.appendChild(textEl({x: 216, y: ly, fill: "currentColor", "font-size": "12"},
      clip(fig.labels[j] || "(none)") + " " + fig.values[j] + " (" + pct + "%)"));
  }
  c.appendChild(svg);
  return true;
}

function renderHistogram(c, fig) {
  var bins = fig.bins || [];
  if (!bins.length) return false;
  var max = Math.max.apply(null, bins.map(function(b) { return b.count; })) || 1;
  var w = 440, h = 200, left = 40, bottom = 24;
  var bw = (w - left) / bins.length;
  var svg = svgEl("svg", {width: "100%", viewBox: "0 0 " + w + " " + (h + bottom)});
  for (var i = 0; i < bins.length; i++) {
    var bh = bins[i].count / max * (h - 10);
    var x = left + i * bw;
    var rect = svgEl("rect", {x: x + 1, y: h - bh, width: Math.max(bw - 2, 1), height: bh, fill: palette[0]});
    var title = svgEl("title", {});
    title.textContent = "[" + fmt(bins[i].lo) + ", " + fmt(bins[i].hi) + (i === bins.length - 1 ? "]" : ")") + ": " + bins[i].count;
    rect.appendChild(title);
    svg.appendChild(rect);
    if (bins[i].count) {
      svg.appendChild(textEl({x: x + bw / 2, y: h - bh - 2, "text-anchor": "middle", fill: "currentColor", "font-size": "10"}, bins[i].count));
    }
  }
  svg.appendChild(svgEl("line", {x1: left, y1: h, x2: w, y2: h, stroke: "currentColor"}));
  svg.appendChild(textEl({x: left, y: h + 16, fill: "currentColor", "font-size": "11"}, fmt(bins[0].lo)));
  svg.appendChild(textEl({x: w, y: h + 16, "text-anchor": "end", fill: "currentColor", "font-size": "11"}, fmt(bins[bins.length - 1].hi)));
  svg.appendChild(textEl({x: (w + left) / 2, y: h + 16, "text-anchor": "middle", fill: "currentColor", "font-size": "11"}, fig.xLabel || ""));
  c.appendChild(svg);
  return true;
}

function renderBar(c, fig) {
  var ys = fig.y || [];
  if (!ys.length) return false;
  var colors = {}, order = [];
  for (var i = 0; i < fig.color.length; i++) {
    if (!(fig.color[i] in colors)) {
      colors[fig.color[i]] = palette[order.length % palette.length];
      order.push(fig.color[i]);
    }
  }
  var max = Math.max.apply(null, fig.x) || 1;
  var h = ys.length * 26 + order.length * 18 + 12;
  var svg = svgEl("svg", {width: "100%", viewBox: "0 0 460 " + h});
  for (var j = 0; j < ys.length; j++) {
    var bw = Math.max(fig.x[j], 0) / max * 250;
    var y = j * 26 + 2;
    svg.appendChild(svgEl("rect", {x: 160, y: y, width: Math.max(bw, 2), height: 20, fill: colors[fig.color[j]], rx: 3}));
    svg.appendChild(textEl({x: 155, y: y + 14, "text-anchor": "end", fill: "currentColor", "font-size": "11"}, clip(ys[j])));
    svg.appendChild(textEl({x: 165 + bw, y: y + 14, fill: "currentColor", "font-size": "11"}, fmt(fig.x[j])));
  }
  for (var k = 0; k < order.length; k++) {
    var ly = ys.length * 26 + 14 + k * 18;
    svg.appendChild(svgEl("rect", {x: 160, y: ly - 9, width: 10, height: 10, fill: colors[order[k]], rx: 2}));
    svg.appendChild(textEl({x: 176, y: ly, fill: "currentColor", "font-size": "11"}, order[k] || "(none)"));
  }
  c.appendChild(svg);
  return true;
}

var renderers = {pie: renderPie, histogram: renderHistogram, bar: renderBar};

function render(figures) {
  (figures || []).forEach(function(fig) {
    var c = document.getElementById(fig.id);
    if (!c) return;
    c.innerHTML = "";
    var h = document.createElement("h4");
    h.textContent = fig.title;
    c.appendChild(h);
    var draw = renderers[fig.kind];
    if (!draw || !draw(c, fig)) {
      var p = document.createElement("p");
      p.className = "empty";
      p.textContent = "No emails logged yet.";
      c.appendChild(p);
    }
  });
}

function showError(msg) {
  var el = document.getElementById("error");
  el.textContent = msg || "";
  el.classList.toggle("hidden", !msg);
}

function refresh() {
  fetch("api/dashboard", {headers: {"Accept": "application/json"}})
    .then(function(resp) { return resp.json(); })
    .then(function(body) {
      if (body.error) { showError(body.error); return; }
      showError("");
      document.getElementById("rows").textContent = body.rows;
      document.getElementById("skipped").textContent = body.skipped ? ", " + body.skipped + " rows skipped" : "";
      render(body.figures);
    })
    .catch(function(err) { showError(String(err)); });
}

document.getElementById("refresh").addEventListener("click", refresh);
render(chartData);
</script>
</body>
</html>`
