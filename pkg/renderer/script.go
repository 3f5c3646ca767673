package renderer

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/foliokit/folioctl/pkg/model"
	"github.com/foliokit/folioctl/pkg/routes"
)

const deepLinkStorageKey = "folio:deep-link"

// bootstrapConfig is the JSON payload embedded in the shell that mirrors the
// route table the pages were rendered from. The client script is a thin
// mirror of the navigation controller; keeping both driven by the same table
// is what makes pre-rendered entry pages and client navigations agree.
type bootstrapConfig struct {
	BasePath      string                   `json:"basePath"`
	DefaultPath   string                   `json:"defaultPath"`
	AssetsPrefix  string                   `json:"assetsPrefix"`
	Routes        map[string]string        `json:"routes"`
	Sections      map[string]sectionConfig `json:"sections"`
	CanonicalBase string                   `json:"canonicalBase,omitempty"`
}

type sectionConfig struct {
	Path        string `json:"path"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

func buildBootstrapConfig(site *model.Site, table *routes.Table) ([]byte, error) {
	cfg := bootstrapConfig{
		BasePath:     basePrefix(site),
		DefaultPath:  routes.DefaultPath,
		AssetsPrefix: site.Website.Spec.AssetsPath,
		Routes:       map[string]string{},
		Sections:     map[string]sectionConfig{},
	}
	if cfg.AssetsPrefix == "" {
		cfg.AssetsPrefix = "/assets/"
	}
	if site.Website.Spec.SEO != nil {
		cfg.CanonicalBase = site.Website.Spec.SEO.PublicBaseURL
	}

	for _, route := range table.StaticRoutes() {
		cfg.Routes[route.Path] = route.SectionID
	}
	for _, section := range sortedSections(site) {
		cfg.Sections[section.Spec.ID] = sectionConfig{
			Path:        table.Normalize(section.Spec.Route),
			Title:       section.Spec.Title,
			Description: section.Spec.Description,
		}
	}
	for _, study := range sortedCaseStudies(site) {
		cfg.Sections[study.SectionID()] = sectionConfig{
			Path:        study.RoutePath(),
			Title:       study.Spec.Title,
			Description: study.Spec.Description,
		}
	}

	payload, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal bootstrap config: %w", err)
	}
	return payload, nil
}

func sortedSections(site *model.Site) []model.Section {
	out := make([]model.Section, 0, len(site.Sections))
	for _, section := range site.Sections {
		out = append(out, section)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].Spec.Route, out[j].Spec.Route
		if ri == rj {
			return out[i].Metadata.Name < out[j].Metadata.Name
		}
		return ri < rj
	})
	return out
}

func sortedCaseStudies(site *model.Site) []model.CaseStudy {
	out := make([]model.CaseStudy, 0, len(site.CaseStudies))
	for _, study := range site.CaseStudies {
		out = append(out, study)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SectionID() < out[j].SectionID()
	})
	return out
}

// routerScript is the self-contained client router that:
//   - Resolves paths against the embedded route table (static routes plus
//     /work/<slug>[/<sub>] case routes)
//   - Toggles section visibility markers so exactly one section shows
//   - Intercepts internal link clicks and drives pushState/replaceState
//   - Replays popstate entries without growing history
//   - Re-syncs visibility after pageshow and visibilitychange (bfcache)
//   - Honors hash deep links and the 404 deep-link handoff on boot
//   - Performs smart back on [data-router-back] anchors
//   - Degrades gracefully without JS (entry pages are full static HTML)
const routerScript = `(function(){
var d=document,w=window,h=history;
var el=d.getElementById("folio-config");
if(!el)return;
var cfg=JSON.parse(el.textContent);
var BASE=cfg.basePath||"",DEF=cfg.defaultPath||"/",ASSETS=cfg.assetsPrefix||"/assets/";
var ROUTES=cfg.routes||{},SECTIONS=cfg.sections||{};
var EXT=/\.[A-Za-z0-9]{1,8}$/;

function normalize(p){
if(BASE&&p.indexOf(BASE+"/")===0){p=p.slice(BASE.length)}
else if(BASE&&p===BASE){p="/"}
if(p.charAt(0)!=="/")p="/"+p;
if(p.length>1&&p.charAt(p.length-1)==="/")p=p.slice(0,-1);
return p||"/";
}

function pathToId(p){
if(ROUTES[p])return ROUTES[p];
if(p.indexOf("/work/")===0){
var rest=p.slice(6),i=rest.indexOf("/");
var id=i<0?"case-"+rest:"case-"+rest.slice(0,i)+"-"+rest.slice(i+1);
if(SECTIONS[id])return id;
}
return"";
}

function idToPath(id){
var s=SECTIONS[id];
return s?s.path:"";
}

function show(id){
d.querySelectorAll("[data-section]").forEach(function(n){
n.classList.toggle("visible",n.getAttribute("data-section")===id);
});
}

function setMeta(id,p){
var s=SECTIONS[id]||{};
if(s.title)d.title=s.title;
if(s.description){
var m=d.querySelector('meta[name="description"]');
if(m)m.setAttribute("content",s.description);
}
if(cfg.canonicalBase){
var c=d.querySelector('link[rel="canonical"]');
if(c)c.setAttribute("href",cfg.canonicalBase+(p==="/"?BASE+"/":BASE+p));
}
d.querySelectorAll("nav a[href]").forEach(function(a){
var hp;
try{hp=normalize(new URL(a.href,location.origin).pathname)}catch(e){return}
var on=hp===p;
a.classList.toggle("is-active",on);
if(on)a.setAttribute("aria-current","page");
else a.removeAttribute("aria-current");
});
}

var busy=false,pending=null;

function navigate(p,replace){
p=normalize(p);
if(busy){pending={p:p,replace:replace};return}
busy=true;
for(;;){
commit(p,replace);
if(!pending)break;
p=pending.p;replace=pending.replace;pending=null;
}
busy=false;
}

function commit(p,replace){
var id=pathToId(p);
if(!id){p=normalize(DEF);id=pathToId(p)}
show(id);
w.scrollTo(0,0);
setMeta(id,p);
var url=p==="/"?(BASE||"/"):BASE+p;
if(replace)h.replaceState({path:p},"",url);
else h.pushState({path:p},"",url);
w.dispatchEvent(new CustomEvent("folio:reveal",{detail:{section:id,path:p}}));
}

d.addEventListener("click",function(e){
var a=e.target.closest&&e.target.closest("a[href]");
if(!a)return;
if(e.defaultPrevented||e.button!==0||e.ctrlKey||e.metaKey||e.shiftKey||e.altKey)return;
if(a.target&&a.target!=="_self")return;
if(a.hasAttribute("download")||a.hasAttribute("data-no-router"))return;
var rel=(a.getAttribute("rel")||"").toLowerCase();
if(rel.split(/\s+/).indexOf("external")>=0)return;
var raw=a.getAttribute("href")||"";
if(raw.indexOf("mailto:")===0||raw.indexOf("tel:")===0)return;
if(a.hasAttribute("data-router-back")){
e.preventDefault();
smartBack(raw);
return;
}
var u;
try{u=new URL(a.href,location.origin)}catch(x){return}
if(u.origin!==location.origin)return;
var p=normalize(u.pathname);
if(EXT.test(p))return;
if(p.indexOf(ASSETS)===0)return;
if(u.hash){
var fid=u.hash.slice(1);
if(!SECTIONS[fid])return;
e.preventDefault();
navigate(idToPath(fid),false);
return;
}
if(!pathToId(p))return;
e.preventDefault();
navigate(p,false);
});

function smartBack(href){
var before=location.href,moved=false;
var onpop=function(){moved=true};
w.addEventListener("popstate",onpop);
h.back();
setTimeout(function(){
w.removeEventListener("popstate",onpop);
if(!moved&&location.href===before)navigate(href,false);
},250);
}

w.addEventListener("popstate",function(e){
var p=e.state&&e.state.path?e.state.path:normalize(location.pathname);
navigate(p,true);
});

function resync(){
var vis=d.querySelector("[data-section].visible");
if(vis&&vis.offsetParent!==null)return;
var p=h.state&&h.state.path?h.state.path:normalize(location.pathname);
navigate(p,true);
}
w.addEventListener("pageshow",resync);
d.addEventListener("visibilitychange",function(){
if(!d.hidden)resync();
});

var boot=normalize(location.pathname);
var stored=null;
try{stored=sessionStorage.getItem("` + deepLinkStorageKey + `");
if(stored)sessionStorage.removeItem("` + deepLinkStorageKey + `")}catch(e){}
if(stored){
var shash="",si=stored.indexOf("#");
if(si>=0){shash=stored.slice(si+1);stored=stored.slice(0,si)}
var sq=stored.indexOf("?");
if(sq>=0)stored=stored.slice(0,sq);
boot=normalize(stored);
if(shash&&SECTIONS[shash])boot=idToPath(shash);
}
var hash=location.hash.slice(1);
if(hash&&SECTIONS[hash])boot=idToPath(hash);
navigate(boot,true);
})();`
