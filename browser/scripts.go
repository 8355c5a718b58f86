package browser

// Names of the bindings exposed to the page.
const (
	mutationBinding = "__sbskipMutation"
	timeBinding     = "__sbskipTime"
)

// observeScript installs a MutationObserver on the document, coalescing
// bursts of mutations into one call per task.
const observeScript = `function (binding) {
	if (window.__sbskipObserver) return;
	let queued = false;
	const notify = () => {
		if (queued) return;
		queued = true;
		setTimeout(() => { queued = false; window[binding](null); }, 0);
	};
	const start = () => {
		window.__sbskipObserver = new MutationObserver(notify);
		window.__sbskipObserver.observe(document.body || document.documentElement, { childList: true, subtree: true });
		notify();
	};
	if (document.readyState === "loading") document.addEventListener("DOMContentLoaded", start);
	else start();
}`

const pageStateScript = `() => JSON.stringify((window.__INITIAL_STATE__ && window.__INITIAL_STATE__.videoData) || null)`

const (
	attachedScript = `function () { return document.contains(this); }`
	markedScript   = `function () { return this.dataset.sponsorblockInit === "true"; }`
	markScript     = `function () { this.dataset.sponsorblockInit = "true"; }`
	unmarkScript   = `function () { delete this.dataset.sponsorblockInit; }`
	timeScript     = `function () { return this.currentTime; }`
	seekScript     = `function (t) { this.currentTime = t; }`
)

const subscribeScript = `function (binding, token) {
	const handler = () => window[binding]({ token: token, time: this.currentTime });
	this.__sbskipHandlers = this.__sbskipHandlers || {};
	this.__sbskipHandlers[token] = handler;
	this.addEventListener("timeupdate", handler);
}`

const unsubscribeScript = `function (token) {
	const handlers = this.__sbskipHandlers || {};
	if (handlers[token]) {
		this.removeEventListener("timeupdate", handlers[token]);
		delete handlers[token];
	}
}`

// notifyScript shows a transient notification in the top right corner.
const notifyScript = `function (n) {
	document.querySelectorAll(".sbskip-notification").forEach((e) => e.remove());
	const box = document.createElement("div");
	box.className = "sbskip-notification";
	Object.assign(box.style, {
		position: "fixed", top: "20px", right: "20px", zIndex: 2147483647,
		padding: "10px 14px", borderRadius: "6px", borderLeft: "4px solid " + n.color,
		background: "rgba(28, 28, 28, 0.9)", color: "#fff", font: "14px sans-serif",
		transition: "opacity 0.3s", opacity: "1", pointerEvents: "none",
	});
	const title = document.createElement("div");
	title.style.fontWeight = "bold";
	title.textContent = n.title;
	const detail = document.createElement("div");
	detail.style.opacity = "0.7";
	detail.textContent = n.detail;
	box.append(title, detail);
	document.body.appendChild(box);
	setTimeout(() => {
		box.style.opacity = "0";
		setTimeout(() => box.remove(), 300);
	}, n.duration);
}`

// playerWrapSelector matches the video container of both player generations.
const playerWrapSelector = ".bpx-player-video-wrap, .bilibili-player-video"

// badgeScript replaces the segment badge with pills for each segment. It sits
// inside the player when one is on the page and in the page corner otherwise.
const badgeScript = `function (b) {
	document.querySelectorAll(".sbskip-badge").forEach((e) => e.remove());
	const wrap = document.querySelector(b.selector);
	const badge = document.createElement("div");
	badge.className = "sbskip-badge";
	Object.assign(badge.style, {
		position: wrap ? "absolute" : "fixed", top: "12px", right: "12px", zIndex: 2147483647,
		padding: "6px 10px", borderRadius: "6px", background: "rgba(28, 28, 28, 0.8)",
		color: "#fff", font: "12px sans-serif", display: "flex", gap: "6px", alignItems: "center",
	});
	const label = document.createElement("span");
	label.textContent = b.label;
	badge.appendChild(label);
	for (const p of b.pills) {
		const pill = document.createElement("span");
		pill.title = p.title;
		Object.assign(pill.style, { width: "10px", height: "10px", borderRadius: "50%", background: p.color });
		badge.appendChild(pill);
	}
	if (wrap && getComputedStyle(wrap).position === "static") wrap.style.position = "relative";
	(wrap || document.body).appendChild(badge);
}`
